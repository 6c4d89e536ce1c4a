package email

import (
	"bytes"
	"html/template"

	"github.com/example/clothing-store/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Currency is appended to every amount shown to the shop owner.
const Currency = "ر.س"

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + Currency
}

var orderNoticeTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"amount":   formatAmount,
	"subtotal": func(price decimal.Decimal, qty int) string { return formatAmount(price.Mul(decimal.NewFromInt(int64(qty)))) },
	"date":     func(o order.Order) string { return o.Date.Format("2006-01-02 15:04") },
}).Parse(`<!DOCTYPE html>
<html dir="rtl" lang="ar">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Tahoma, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #1f2937; padding: 24px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 22px;">طلب جديد</h1>
	</div>

	<div style="background: #fff; padding: 24px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 20px;">
			<p style="margin: 0;">رقم الطلب: <strong style="font-family: monospace;">{{.ID}}</strong></p>
			<p style="margin: 0;">التاريخ: {{date .}}</p>
			<p style="margin: 0;">الحالة: {{.Status}}</p>
		</div>

		<h2 style="font-size: 18px;">بيانات العميل</h2>
		<p style="margin: 0;">الاسم: {{.CustomerName}}</p>
		<p style="margin: 0;">الهاتف: {{.CustomerPhone}}</p>
		<p style="margin: 0;">العنوان: {{.CustomerAddress}}</p>

		<h2 style="font-size: 18px; border-bottom: 2px solid #1f2937; padding-bottom: 10px;">المنتجات</h2>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: right;">المنتج</th>
					<th style="padding: 12px; text-align: center;">الكمية</th>
					<th style="padding: 12px; text-align: left;">السعر</th>
					<th style="padding: 12px; text-align: left;">المجموع الفرعي</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Name}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: left;">{{amount .Price}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: left;">{{subtotal .Price .Quantity}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>

		<div style="text-align: left; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">الإجمالي</span>
			<span style="font-size: 22px; font-weight: bold; margin-right: 10px;">{{amount .Total}}</span>
		</div>
	</div>
</body>
</html>
`))

// BuildOrderNoticeBody renders the HTML body of the shop owner's new-order mail.
func BuildOrderNoticeBody(o order.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderNoticeTmpl.Execute(&buf, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}
