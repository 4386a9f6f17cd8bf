// Package export 將分析結果輸出為 PDF 文件。
package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"foodsnap-api/internal/core/ai/image"
	"foodsnap-api/internal/pkg/common"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

const (
	marginMM       = 15.0
	maxImageHeight = 65.0
	lineHeight     = 5.5
)

var whitespace = regexp.MustCompile(`\s+`)

// FileName 下載檔名：食物名稱的空白換成 "-"，加上 "-analysis.pdf"
func FileName(foodName string) string {
	return whitespace.ReplaceAllString(foodName, "-") + "-analysis.pdf"
}

// Renderer PDF 產生器
type Renderer struct {
	now func() time.Time
}

// NewRenderer 創建 PDF 產生器
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

type page struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render 產生完整分析 PDF；圖片無法嵌入時略過圖片
func (r *Renderer) Render(analysis *common.FoodAnalysis, img []byte, mimeType string) ([]byte, error) {
	if analysis == nil {
		return nil, common.ErrNoResult
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(analysis.FoodName, true)
	pdf.SetCreator("FoodSnap AI", true)
	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	year := r.now().Year()
	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 4, p.tr("Peringatan: Hasil analisis ini 100% dibuat oleh AI dan mungkin tidak sepenuhnya akurat."), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 4, p.tr(fmt.Sprintf("© %d FoodSnap AI. All rights reserved.", year)), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	p.header()
	if len(img) > 0 {
		p.image(img, mimeType)
	}

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(15, 23, 42)
	pdf.MultiCell(0, 10, p.tr(analysis.FoodName), "", "C", false)
	pdf.Ln(3)

	p.section("Resep")
	p.labelled("Waktu Memasak", analysis.Recipe.CookingTime)
	p.labelled("Estimasi Biaya", analysis.Recipe.EstimatedCost)
	p.subheading("Bahan-bahan:")
	p.bullets(analysis.Recipe.Ingredients)
	p.subheading("Langkah-langkah:")
	p.numbered(analysis.Recipe.Instructions)

	p.section("Informasi Gizi")
	n := analysis.Nutrition
	p.labelled("Energi (Kalori)", n.Calories)
	p.labelled("Lemak Total", n.TotalFat)
	p.labelled("Kolesterol", n.Cholesterol)
	p.labelled("Natrium", n.Sodium)
	p.labelled("Karbohidrat Total", n.TotalCarbohydrates)
	p.labelled("Kadar Gula", n.Sugar)
	p.labelled("Protein", n.Protein)
	p.labelled("Vitamin & Mineral Utama", n.VitaminsAndMinerals)

	p.section("Analisis Kesehatan")
	p.paragraph(analysis.HealthAnalysis.Summary)
	p.subheading("Efek Positif")
	p.bullets(analysis.HealthAnalysis.PositiveEffects)
	p.subheading("Potensi Risiko")
	p.bullets(analysis.HealthAnalysis.PotentialRisks)

	p.section("Profil Rasa & Paduan")
	p.subheading("Profil Rasa")
	p.paragraph(analysis.FlavorProfile)
	p.subheading("Paduan Minuman")
	p.bullets(analysis.FoodPairing.DrinkPairings)
	p.subheading("Paduan Makanan Pendamping")
	p.bullets(analysis.FoodPairing.FoodPairings)

	p.section("Tips Cerdas")
	p.subheading("Tahukah Anda? (Edukasi)")
	p.paragraph(analysis.SmartTips.EducationalTip)
	p.subheading("Tips Hemat")
	p.paragraph(analysis.SmartTips.SavingTip)

	p.section("Saran Tambahan")
	p.subheading("Saran Penyajian")
	p.paragraph(analysis.ServingSuggestion)
	p.subheading("Waktu Konsumsi")
	p.paragraph(analysis.ConsumptionTime)
	p.subheading("Saran Konsumsi")
	p.paragraph(analysis.ConsumptionSuggestion)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *page) header() {
	p.pdf.SetFont("Arial", "B", 22)
	p.pdf.SetTextColor(16, 185, 129)
	p.pdf.CellFormat(0, 10, "FoodSnap AI", "", 1, "C", false, 0, "")
	p.pdf.SetFont("Arial", "", 10)
	p.pdf.SetTextColor(100, 116, 139)
	p.pdf.CellFormat(0, 6, "Analisis Makanan Lengkap", "", 1, "C", false, 0, "")
	p.rule()
	p.pdf.Ln(4)
}

func (p *page) image(data []byte, mimeType string) {
	data, mimeType, err := image.ToJPEGOrPNG(data, mimeType)
	if err != nil {
		common.LogWarn("Skipping image in pdf export", zap.Error(err))
		return
	}
	imageType := "png"
	if mimeType == "image/jpeg" {
		imageType = "jpg"
	}
	opts := gofpdf.ImageOptions{ImageType: imageType}
	info := p.pdf.RegisterImageOptionsReader("food", opts, bytes.NewReader(data))
	if p.pdf.Err() || info == nil {
		common.LogWarn("Skipping image in pdf export", zap.Error(p.pdf.Error()))
		p.pdf.ClearError()
		return
	}

	pageWidth, _ := p.pdf.GetPageSize()
	maxWidth := pageWidth - 2*marginMM
	w, h := info.Width(), info.Height()
	if h > maxImageHeight {
		w, h = w*maxImageHeight/h, maxImageHeight
	}
	if w > maxWidth {
		w, h = maxWidth, h*maxWidth/w
	}
	x := (pageWidth - w) / 2
	p.pdf.ImageOptions("food", x, p.pdf.GetY(), w, h, true, opts, 0, "")
	p.pdf.Ln(4)
}

func (p *page) rule() {
	pageWidth, _ := p.pdf.GetPageSize()
	y := p.pdf.GetY() + 2
	p.pdf.SetDrawColor(226, 232, 240)
	p.pdf.Line(marginMM, y, pageWidth-marginMM, y)
	p.pdf.SetY(y)
}

func (p *page) section(title string) {
	p.pdf.Ln(4)
	p.rule()
	p.pdf.Ln(3)
	p.pdf.SetFont("Arial", "B", 15)
	p.pdf.SetTextColor(15, 23, 42)
	p.pdf.CellFormat(0, 8, p.tr(title), "", 1, "L", false, 0, "")
}

func (p *page) subheading(text string) {
	p.pdf.Ln(1)
	p.pdf.SetFont("Arial", "B", 11)
	p.pdf.SetTextColor(51, 65, 85)
	p.pdf.CellFormat(0, 6, p.tr(text), "", 1, "L", false, 0, "")
}

func (p *page) paragraph(text string) {
	p.pdf.SetFont("Arial", "", 10)
	p.pdf.SetTextColor(71, 85, 105)
	p.pdf.MultiCell(0, lineHeight, p.tr(strings.TrimSpace(text)), "", "L", false)
}

func (p *page) labelled(label, value string) {
	p.pdf.SetFont("Arial", "B", 10)
	p.pdf.SetTextColor(51, 65, 85)
	p.pdf.CellFormat(55, lineHeight, p.tr(label), "", 0, "L", false, 0, "")
	p.pdf.SetFont("Arial", "", 10)
	p.pdf.SetTextColor(71, 85, 105)
	p.pdf.MultiCell(0, lineHeight, p.tr(value), "", "L", false)
}

func (p *page) bullets(items []string) {
	p.pdf.SetFont("Arial", "", 10)
	p.pdf.SetTextColor(71, 85, 105)
	for _, item := range items {
		p.pdf.MultiCell(0, lineHeight, p.tr("•  "+item), "", "L", false)
	}
}

func (p *page) numbered(items []string) {
	p.pdf.SetFont("Arial", "", 10)
	p.pdf.SetTextColor(71, 85, 105)
	for i, item := range items {
		p.pdf.MultiCell(0, lineHeight, p.tr(fmt.Sprintf("%d. %s", i+1, item)), "", "L", false)
	}
}
