package fcm

type configSource interface {
	GetFCM() Config
}

type Config struct {
	CredentialsFile string `yaml:"credentialsFile"`
	// CredentialsBase64 is the service account json, base64 encoded.
	CredentialsBase64 string `yaml:"credentialsBase64"`
}
