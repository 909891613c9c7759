package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/platform/sendgrid"
	"github.com/yungbote/usr-annotation-backend/internal/realtime/bus"
	"github.com/yungbote/usr-annotation-backend/internal/services"
)

type Clients struct {
	Bus    bus.Bus
	Mailer services.OTPMailer
}

// wireClients fans realtime events through Redis when REDIS_ADDR is set so
// every API instance can reach its own SSE clients. OTP mail goes through
// SendGrid when a key is configured.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	mailer := services.NewLogOTPMailer(log)
	if cfg.SendGrid.APIKey != "" {
		sg, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			return Clients{}, fmt.Errorf("init sendgrid: %w", err)
		}
		mailer = services.NewSendGridOTPMailer(log, sg)
	} else {
		log.Warn("SENDGRID_API_KEY unset; OTP codes are only logged at debug level")
	}

	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		log.Info("REDIS_ADDR unset; using in-process event bus")
		return Clients{Bus: bus.NewMemoryBus(), Mailer: mailer}, nil
	}
	b, err := bus.NewRedisBus(log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis bus: %w", err)
	}
	return Clients{Bus: b, Mailer: mailer}, nil
}

func (c Clients) Close() error {
	if c.Bus == nil {
		return nil
	}
	return c.Bus.Close()
}
