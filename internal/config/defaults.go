package config

const (
	// DefaultVersion is the schema version of the built-in sequence.
	DefaultVersion = "1.0"
	// DefaultName names the built-in sequence.
	DefaultName = "django-predeploy"
)

// DefaultConfig returns the built-in four step sequence: install the
// requirements manifest, install the application server and database
// driver, collect static assets, apply migrations.
func DefaultConfig() *Config {
	return &Config{
		Version: DefaultVersion,
		Name:    DefaultName,
		Steps: []Step{
			{
				ID:      "install_requirements",
				Name:    "Install dependencies",
				Run:     "pip install -r requirements.txt",
				Enabled: true,
			},
			{
				ID:      "install_server",
				Name:    "Install gunicorn and psycopg2",
				Run:     "pip install gunicorn psycopg2-binary",
				Enabled: true,
			},
			{
				ID:      "collect_static",
				Name:    "Collect static files",
				Run:     "python manage.py collectstatic --no-input",
				Enabled: true,
			},
			{
				ID:      "migrate",
				Name:    "Apply migrations",
				Run:     "python manage.py migrate",
				Enabled: true,
			},
		},
	}
}
