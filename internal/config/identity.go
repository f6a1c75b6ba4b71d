package config

const (
	IdentityProviderFirebase = "firebase"
	IdentityProviderLocal    = "local"
)

type IdentityConfig struct {
	Provider string          `yaml:"provider"`
	Firebase *FirebaseConfig `yaml:"firebase"`
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	APIKey          string `yaml:"api_key"`
	ContinueURL     string `yaml:"continue_url"`
	RESTEndpoint    string `yaml:"rest_endpoint"`
}

func loadIdentityConfig() *IdentityConfig {
	return &IdentityConfig{
		Provider: getEnv("IDENTITY_PROVIDER", IdentityProviderLocal),
		Firebase: &FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			APIKey:          getEnv("FIREBASE_API_KEY", ""),
			ContinueURL:     getEnv("FIREBASE_CONTINUE_URL", "http://localhost:3000/signin"),
			RESTEndpoint:    getEnv("FIREBASE_REST_ENDPOINT", "https://identitytoolkit.googleapis.com/v1"),
		},
	}
}
