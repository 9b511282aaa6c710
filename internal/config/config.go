package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Business is the storefront identity block rendered into order messages and
// served to the public client.
type Business struct {
	Name            string   `json:"name"`
	Tagline         string   `json:"tagline"`
	Description     string   `json:"description"`
	WorkingHours    string   `json:"working_hours"`
	PaymentMethods  string   `json:"payment_methods"`
	PhoneNumber     string   `json:"phone_number"` // country code + area + number, digits only
	InstagramURL    string   `json:"instagram_url"`
	InstagramHandle string   `json:"instagram_handle"`
	DeliveryAreas   []string `json:"delivery_areas"`
	DeliveryFee     string   `json:"delivery_fee"`
	DefaultMessage  string   `json:"default_message"`
	DefaultNote     string   `json:"default_note"`
}

type Config struct {
	Addr          string
	AdminPassword string
	AdminToken    string
	DataFile      string
	UploadsDir    string
	AdminDir      string
	Business      Business
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		Addr:          getenv("ADDR", ":3000"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		AdminToken:    getenv("ADMIN_TOKEN", "s3cr3t-t0k3n"),
		DataFile:      getenv("DATA_FILE", "data/products.json"),
		UploadsDir:    getenv("UPLOADS_DIR", "uploads"),
		AdminDir:      getenv("ADMIN_DIR", "admin"),
		Business: Business{
			Name:            getenv("BUSINESS_NAME", "Dim Dim Gourmet"),
			Tagline:         getenv("BUSINESS_TAGLINE", "Delivery — Geladinhos Artesanais"),
			Description:     getenv("BUSINESS_DESCRIPTION", "Geladinhos artesanais feitos com ingredientes selecionados e muito amor!"),
			WorkingHours:    getenv("BUSINESS_HOURS", "18h às 22h"),
			PaymentMethods:  getenv("BUSINESS_PAYMENTS", "Dinheiro / PIX"),
			PhoneNumber:     getenv("BUSINESS_PHONE", "558591902359"),
			InstagramURL:    getenv("BUSINESS_INSTAGRAM_URL", "https://instagram.com/dimdim_geladinhos"),
			InstagramHandle: getenv("BUSINESS_INSTAGRAM", "@dimdim_geladinhos"),
			DeliveryAreas:   splitList(getenv("BUSINESS_AREAS", "Centro,Jardim América,Vila Nova,Boa Vista,Santa Cruz,Parque das Flores")),
			DeliveryFee:     getenv("BUSINESS_DELIVERY_FEE", "Consulte"),
			DefaultMessage:  getenv("BUSINESS_DEFAULT_MESSAGE", "Olá! Gostaria de fazer um pedido de geladinhos 🍦"),
			DefaultNote:     getenv("BUSINESS_DEFAULT_NOTE", "Delivery somente — confirme endereço antes de finalizar."),
		},
	}
	slog.Info("config loaded",
		"addr", cfg.Addr,
		"data_file", cfg.DataFile,
		"uploads_dir", cfg.UploadsDir,
		"business", cfg.Business.Name,
	)
	return cfg
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
