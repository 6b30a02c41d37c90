package web

import "html/template"

var funcs = template.FuncMap{
	"price": formatPrice,
	"date":  formatDate,
}

var pageTemplate = template.Must(template.New("page").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;max-width:960px;margin:2em auto;color:#222}
.info{background:#e8f1fb;padding:.8em}.success{background:#e6f4ea;padding:.8em}.error{background:#fdecea;padding:.8em}
table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3em .6em;text-align:right}
</style>
</head>
<body>
<h1>📈 {{.Title}}</h1>

<form method="post" action="/predict" enctype="multipart/form-data">
  <label>📤 Upload file CSV (format: Tanggal,Harga) <input type="file" name="file" accept=".csv,text/csv" required></label>
  <label>🔁 Jendela Moving Average (tahun)
    <select name="window">{{range .Windows}}<option value="{{.}}"{{if eq . $.Window}} selected{{end}}>{{.}}</option>{{end}}</select>
  </label>
  <button type="submit">Proses</button>
</form>

{{with .Error}}<p class="error">❌ {{.}}</p>{{end}}
{{with .Notice}}<p class="success">✅ {{.}}</p>{{end}}
{{with .Info}}<p class="info">{{.}}</p>{{end}}

{{with .Result}}
<h2>📊 Data Harga dan Moving Average</h2>
<table>
  <tr><th></th><th>Tanggal</th><th>Harga</th><th>MA</th></tr>
  {{range .Rows}}<tr><td>{{.Index}}</td><td>{{date .Obs.Date}}</td><td>{{.Obs.Price.String}}</td><td>{{if .MA.Defined}}{{price .MA.Value}}{{else}}NaN{{end}}</td></tr>{{end}}
</table>

<h2>📉 Grafik Harga dan Prediksi</h2>
<img src="{{.Chart}}" alt="Grafik harga">

{{with .Success}}<p class="success">🎯 {{.}}</p>{{end}}

{{with .Prediction}}
<form method="post" action="/predictions">
  <input type="hidden" name="predicted_date" value="{{.PredictedDate}}">
  <input type="hidden" name="predicted_price" value="{{.PredictedPrice}}">
  <input type="hidden" name="window" value="{{.Window}}">
  <input type="hidden" name="source_label" value="{{.SourceLabel}}">
  <button type="submit">💾 Simpan ke Database</button>
</form>
{{end}}
{{end}}

<details{{if .OpenHistory}} open{{end}}>
<summary>📚 Lihat histori prediksi</summary>
{{with .HistoryError}}<p class="error">❌ {{.}}</p>{{else}}
<table>
  <tr><th>id</th><th>predicted_date</th><th>predicted_price</th><th>window</th><th>source_label</th></tr>
  {{range .History}}<tr><td>{{.ID}}</td><td>{{.PredictedDate}}</td><td>{{.PredictedPrice}}</td><td>{{.Window}}</td><td>{{.SourceLabel}}</td></tr>{{end}}
</table>
{{end}}
</details>
</body>
</html>
`))
