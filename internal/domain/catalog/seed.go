package catalog

import (
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Seed returns the catalog a fresh store starts with.
func Seed() Catalog {
	return Catalog{
		{
			ID:          "1",
			Name:        "جاكيت جلدي كلاسيك",
			Price:       decimal.NewFromInt(350),
			Category:    "سترات",
			Description: "جاكيت جلدي فاخر مصنوع يدوياً من أجود أنواع الجلود الطبيعية. تصميم عصري يناسب جميع الأوقات.",
			ImageURL:    "https://picsum.photos/400/500?random=1",
			Stock:       10,
		},
		{
			ID:          "2",
			Name:        "قميص أبيض رسمي",
			Price:       decimal.NewFromInt(120),
			Category:    "قمصان",
			Description: "قميص قطني ناعم الملمس، مثالي للعمل والمناسبات الرسمية.",
			ImageURL:    "https://picsum.photos/400/500?random=2",
			Stock:       25,
		},
		{
			ID:          "3",
			Name:        "بنطلون جينز أزرق",
			Price:       decimal.NewFromInt(180),
			Category:    "بناطيل",
			Description: "بنطلون جينز بتصميم سليم فيت، مريح وعملي للاستخدام اليومي.",
			ImageURL:    "https://picsum.photos/400/500?random=3",
			Stock:       15,
		},
		{
			ID:          "4",
			Name:        "فستان صيفي مزهر",
			Price:       decimal.NewFromInt(290),
			Category:    "فساتين",
			Description: "فستان صيفي خفيف بنقوش زهور زاهية، مثالي للأجواء المشمسة والنزهات.",
			ImageURL:    "https://picsum.photos/400/500?random=4",
			Stock:       8,
		},
	}
}

// seedEntry is the YAML shape of a seed file entry. Prices are kept as text so
// decimal values survive the YAML float conversion.
type seedEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Stock       int    `yaml:"stock"`
}

type seedFile struct {
	Products []seedEntry `yaml:"products"`
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (Catalog, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode seed")
	}

	out := make(Catalog, 0, len(f.Products))
	for i, e := range f.Products {
		price, err := decimal.NewFromString(e.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "seed entry %d: price", i)
		}
		p := Product{
			ID:          e.ID,
			Name:        e.Name,
			Price:       price,
			Category:    e.Category,
			Description: e.Description,
			ImageURL:    e.ImageURL,
			Stock:       e.Stock,
		}
		if p.ID == "" {
			p.ID = NewID()
		}
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, "seed entry %d", i)
		}
		if out, err = out.Add(p); err != nil {
			return nil, errors.Wrapf(err, "seed entry %d", i)
		}
	}
	return out, nil
}

// LoadSeed reads a YAML seed file from disk.
func LoadSeed(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	return ParseSeed(data)
}
