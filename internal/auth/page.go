package auth

import "html/template"

var qrPage = template.Must(template.New("qr").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Escanea el QR para conectar WhatsApp</title>
    <style>
        body { font-family: Arial, sans-serif; text-align: center; margin-top: 50px; background: #f0f0f0; }
        img { max-width: 90%; height: auto; border: 2px solid #075e54; border-radius: 10px; }
        pre { display: inline-block; line-height: 1; background: #fff; padding: 10px; }
        h1 { color: #075e54; }
        p { font-size: 1.2em; }
        .refresh { margin-top: 20px; font-size: 1em; color: #666; }
    </style>
</head>
<body>
    <h1>Escanea este QR con tu WhatsApp</h1>
    {{if .Image}}<img src="{{.Image}}" alt="QR Code WhatsApp">{{else}}<pre>{{.Terminal}}</pre>{{end}}
    <p>Si el QR no funciona, espera unos segundos y recarga la página.</p>
    <p class="refresh">El QR se actualiza automáticamente cuando es necesario.</p>
</body>
</html>
`))

var unavailablePage = template.Must(template.New("qr-unavailable").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>QR no disponible</title></head>
<body>
    <h1>No hay QR disponible aún</h1>
    <p>Espera a que aparezca en los logs "New QR code generated" y recarga esta página.</p>
    <p>Si ya está conectado, no se mostrará QR.</p>
</body>
</html>
`))

type qrPageData struct {
	Image    template.URL
	Terminal string
}
