package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/ultimate-tictactoe-backend/internal/ultimate"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env-default:"9091"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env-default:"./games.db"`
	Game              Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Game holds the board rule toggles. The defaults reproduce the reference
// behavior: won subgrids stay playable and the overall winner is read from
// raw 9x9 cell lines.
type Game struct {
	StrictSubgridGating bool   `yaml:"strict-subgrid-gating" env-default:"false"`
	WinRule             string `yaml:"win-rule" env-default:"cells"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Rules converts the configured toggles into board rules.
func (that *Game) Rules() ultimate.Rules {
	return ultimate.Rules{
		StrictGating: that.StrictSubgridGating,
		WinRule:      ultimate.WinRule(that.WinRule),
	}
}
