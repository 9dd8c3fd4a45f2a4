package model

// Catalog types mirror the upstream read-only catalog API. The
// storefront never writes these.

type Provider struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type Bundle struct {
	ID           uint    `json:"id"`
	ProviderID   uint    `json:"provider_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DataVolume   string  `json:"data_volume"`
	ValidityDays int     `json:"validity_days"`
	Description  string  `json:"description,omitempty"`
	IsActive     bool    `json:"is_active"`
}

type RouterProduct struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Description    string  `json:"description,omitempty"`
	Specifications string  `json:"specifications,omitempty"`
	IsAvailable    bool    `json:"is_available"`
}

type Electronic struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}
