package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/jj-oyna/glass-pos/internal/order"
)

// receiptTmpl lays out the printable receipt: per-glass-type groups, the
// base area, the waste line, and the grand total. Rasterizing this into
// an image or PDF is a downstream concern.
var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": order.FormatMoney,
}).Parse(`<!DOCTYPE html>
<html lang="uz">
<head>
<meta charset="utf-8">
<title>Chek #{{.ShortID}}</title>
<style>
body { font-family: monospace; max-width: 800px; margin: 0 auto; padding: 24px; }
h1 { font-size: 22px; text-transform: uppercase; }
.group { border: 2px solid #000; border-radius: 8px; padding: 12px; margin-bottom: 12px; }
.group h2 { font-size: 16px; margin: 0 0 8px; }
.row { display: flex; justify-content: space-between; font-size: 14px; }
.totals { border: 4px solid #000; border-radius: 8px; padding: 16px; margin-top: 16px; }
.waste { color: #dc2626; }
.grand { font-size: 28px; font-weight: 900; }
</style>
</head>
<body>
<h1>Buyurtma #{{.ShortID}}</h1>
<p>Mijoz: <strong>{{.Customer}}</strong> &mdash; {{.Date}}</p>
{{range .Groups}}<div class="group">
<h2>{{.GlassName}} &mdash; {{printf "%.3f" .AreaM2}} m² / {{money .Price}} so'm</h2>
{{range .Items}}<div class="row"><span>{{printf "%.0f" .WidthCm}} x {{printf "%.0f" .HeightCm}} sm &times; {{.Quantity}}</span><span>{{printf "%.3f" .AreaM2}} m²</span><span>{{money .TotalPrice}}</span></div>
{{end}}</div>
{{end}}<div class="totals">
<div class="row"><span>Sof yuza:</span><span>{{printf "%.3f" .BaseArea}} m²</span></div>
<div class="row waste"><span>Atxot (+{{printf "%g" .WastePercent}}%):</span><span>+{{printf "%.3f" .WasteArea}} m²</span></div>
<div class="row grand"><span>JAMI TO'LOV:</span><span>{{money .TotalAmount}} SO'M</span></div>
</div>
</body>
</html>
`))

type receiptData struct {
	ShortID      string
	Customer     string
	Date         string
	Groups       []order.Group
	BaseArea     float64
	WasteArea    float64
	WastePercent float64
	TotalAmount  float64
}

// RenderReceiptHTML produces the receipt document for a finalized order.
func RenderReceiptHTML(o order.SavedOrder) ([]byte, error) {
	groups := order.GroupByGlass(o.Items)
	var baseArea float64
	for _, g := range groups {
		baseArea += g.AreaM2
	}
	customer := o.CustomerName
	if customer == "" {
		customer = "Noma'lum"
	}
	data := receiptData{
		ShortID:      o.ShortID(),
		Customer:     customer,
		Date:         o.Time().Format(time.DateTime),
		Groups:       groups,
		BaseArea:     baseArea,
		WasteArea:    baseArea * o.WastePercent / 100,
		WastePercent: o.WastePercent,
		TotalAmount:  o.TotalAmount,
	}
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("notify: render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// ReceiptFilename names the delivered document after the customer and the
// short order id.
func ReceiptFilename(o order.SavedOrder) string {
	customer := o.CustomerName
	if customer == "" {
		customer = "buyurtma"
	}
	return fmt.Sprintf("chek_%s_%s.html", customer, o.ShortID())
}
