package expo

type configSource interface {
	GetExpo() Config
}

type Config struct {
	Endpoint    string `yaml:"endpoint"`
	AccessToken string `yaml:"accessToken"`
	TimeoutSec  int    `yaml:"timeoutSec"`
}
