// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt generates a PDF receipt for an order
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	data := receiptData{
		ReceiptNumber: fmt.Sprintf("REC-%06d", o.ID),
		IssuedAt:      o.CreatedAt.Format("02/01/2006 15:04"),
		Order:         o,
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Address: s.config.App.CompanyAddress,
			Phone:   s.config.App.CompanyPhone,
			Email:   s.config.App.CompanyEmail,
		},
	}

	data.Subtotal = formatBRL(o.Total + o.Discount)
	data.Discount = formatBRL(o.Discount)
	data.Total = formatBRL(o.Total)
	for _, item := range o.Items {
		row := receiptItem{
			Name:     fmt.Sprintf("Produto #%d", item.ProductID),
			Quantity: item.Quantity,
			Price:    formatBRL(item.Price),
			Subtotal: formatBRL(item.Price * float64(item.Quantity)),
		}
		if item.Product != nil {
			row.Name = item.Product.Name
			row.Unit = item.Product.Unit
		}
		data.Items = append(data.Items, row)
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data receiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatBRL(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// receiptData represents the data passed to the receipt template
type receiptData struct {
	ReceiptNumber string
	IssuedAt      string
	Order         *order.Order
	Company       CompanyInfo
	Items         []receiptItem
	Subtotal      string
	Discount      string
	Total         string
}

type receiptItem struct {
	Name     string
	Unit     string
	Quantity int
	Price    string
	Subtotal string
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <title>Recibo {{.ReceiptNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .company-info {
            flex: 1;
        }
        .receipt-info {
            text-align: right;
            flex: 1;
        }
        .receipt-title {
            font-size: 28px;
            font-weight: bold;
            color: #16a34a;
            margin-bottom: 10px;
        }
        .details {
            margin-bottom: 30px;
        }
        .details table {
            width: 100%;
        }
        .details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .details .label {
            font-weight: bold;
            width: 150px;
        }
        .delivery-info {
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 90px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 110px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Company.Name}}</h1>
            <p>{{.Company.Address}}</p>
            <p>Telefone: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
        </div>
        <div class="receipt-info">
            <div class="receipt-title">RECIBO</div>
            <p><strong>Recibo:</strong> {{.ReceiptNumber}}</p>
            <p><strong>Emitido em:</strong> {{.IssuedAt}}</p>
            <p><strong>Pedido:</strong> #{{.Order.ID}}</p>
        </div>
    </div>

    <div class="details">
        <table>
            <tr>
                <td class="label">Cliente:</td>
                <td>{{if .Order.User}}{{.Order.User.Name}}{{end}}</td>
                <td class="label" style="text-align: right;">Status:</td>
                <td style="text-align: right;">{{.Order.Status}}</td>
            </tr>
            <tr>
                <td class="label">Mercado:</td>
                <td>{{if .Order.Market}}{{.Order.Market.Name}}{{end}}</td>
                <td class="label" style="text-align: right;">Pagamento:</td>
                <td style="text-align: right;">{{.Order.PaymentMethod}}</td>
            </tr>
        </table>
    </div>

    {{if .Order.DeliveryAddress}}
    <div class="delivery-info">
        <div class="section-title">Entregar em:</div>
        <p>{{.Order.DeliveryAddress.Street}}, {{.Order.DeliveryAddress.Number}}{{if .Order.DeliveryAddress.Complement}} - {{.Order.DeliveryAddress.Complement}}{{end}}</p>
        <p>{{.Order.DeliveryAddress.District}} - {{.Order.DeliveryAddress.City}}/{{.Order.DeliveryAddress.State}}</p>
        <p>CEP: {{.Order.DeliveryAddress.PostalCode}}</p>
    </div>
    {{end}}

    <table class="items-table">
        <thead>
            <tr>
                <th>Produto</th>
                <th>Unidade</th>
                <th class="qty-col">Qtd</th>
                <th class="price-col">Preço</th>
                <th class="total-col">Subtotal</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td>{{.Unit}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{.Price}}</td>
                <td class="total-col">{{.Subtotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Subtotal}}</td>
            </tr>
            {{if .Order.Coupon}}
            <tr>
                <td class="label">Desconto ({{.Order.Coupon.Code}}):</td>
                <td class="amount">-{{.Discount}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.Total}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Obrigado pela sua compra!</p>
        <p>Em caso de dúvidas sobre este recibo, fale conosco em {{.Company.Email}} ou {{.Company.Phone}}</p>
    </div>
</body>
</html>
`
