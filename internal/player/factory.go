package player

import (
	"fmt"

	"github.com/PizzaHomicide/playstate/internal/config"
	"github.com/PizzaHomicide/playstate/internal/log"
)

// CreateBackend creates a playback backend based on the configuration
func CreateBackend(cfg *config.Config, logger *log.Logger) (Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration provided")
	}
	if logger == nil {
		logger = log.Discard()
	}

	playerType := cfg.Player.Type
	logger.Info("Creating playback backend", "type", playerType)

	switch playerType {
	case "mpv", "":
		return NewMPVElement(cfg.Player, logger), nil
	default:
		logger.Warn("Unknown player type, falling back to MPV", "type", playerType)
		return NewMPVElement(cfg.Player, logger), nil
	}
}
