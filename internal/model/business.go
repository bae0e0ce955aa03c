package model

import "time"

type Business struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tagline   string    `json:"tagline,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
