package httpapi

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Banner.Text}}</title>
<link rel="icon" href="{{.Banner.Favicon}}">
</head>
<body>
<header id="overall-status" class="{{.Banner.Class}}">
  <h1>{{.Banner.Text}}</h1>
</header>
<section id="summary">
  <p>Availability over the last <span id="timeframe">{{.Timeframe}}</span>: <span id="availability">{{.Availability}}</span></p>
  <p><span id="check-count">{{.CheckCount}}</span> checks observed, last check <span id="last-check">{{.LastCheck}}</span></p>
</section>
<table id="last-results">
{{- range .Targets}}
  <tr class="{{.Class}}"><td>{{.Title}}</td><td>{{.Endpoint}}</td><td>{{.Status}}</td></tr>
{{- end}}
</table>
<ul id="timeline">
{{- range .Events}}
  <li class="{{range $i, $c := .Classes}}{{if $i}} {{end}}{{$c}}{{end}}">
  {{- if .IsMessage}}
    <span class="title">{{.Title}}</span> <span class="ago">{{.Ago}}</span>
    <p class="message">{{.Message}}</p>
  {{- else}}
    <span class="title">{{.Title}}</span> <span class="status">{{.Status}}</span> <time>{{.Time}}</time>
  {{- end}}
  </li>
{{- end}}
</ul>
</body>
</html>
`))
