package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`

	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`

	JWTSecret string `envconfig:"SUPABASE_JWT_SECRET" required:"true"`

	S3URL         string `envconfig:"SUPABASE_S3_URL" required:"true"`
	S3Region      string `envconfig:"SUPABASE_S3_REGION" default:"us-east-1"`
	S3AccessKey   string `envconfig:"SUPABASE_S3_ACCESS_KEY" required:"true"`
	S3SecretKey   string `envconfig:"SUPABASE_S3_SECRET_KEY" required:"true"`
	VideoBucket   string `envconfig:"VIDEO_BUCKET" default:"course-videos"`
	NotesBucket   string `envconfig:"NOTES_BUCKET" default:"course-notes"`
	PublicURLBase string `envconfig:"STORAGE_PUBLIC_URL_BASE" required:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
