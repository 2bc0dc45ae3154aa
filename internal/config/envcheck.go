package config

import "fmt"

const uriPreviewLen = 15

// EnvStatus reports whether the required settings are present without
// revealing secret values.
type EnvStatus struct {
	AllPresent  bool              `json:"allPresent"`
	MissingVars []string          `json:"missingVars"`
	EnvSummary  map[string]string `json:"envSummary"`
}

// EnvStatus summarizes the required environment for the configured backend.
func (c *Config) EnvStatus() EnvStatus {
	missing := []string{}
	summary := map[string]string{}

	if c.DB.Driver == DriverMongo {
		if c.DB.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		summary["MONGO_URI"] = previewURI(c.DB.MongoURI)
	} else {
		summary["SQLITE_PATH"] = c.DB.SQLitePath
	}

	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
		summary["JWT_SECRET"] = "Not set"
	} else {
		summary["JWT_SECRET"] = fmt.Sprintf("Set (length: %d)", len(c.Auth.JWTSecret))
	}

	return EnvStatus{
		AllPresent:  len(missing) == 0,
		MissingVars: missing,
		EnvSummary:  summary,
	}
}

func previewURI(uri string) string {
	if uri == "" {
		return "Not set"
	}
	if len(uri) > uriPreviewLen {
		uri = uri[:uriPreviewLen]
	}
	return "Set (starts with: " + uri + "...)"
}
