package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/supportlab/triage-agent/agent/contract"
	gatewayx "github.com/supportlab/triage-agent/agent/gateway"
	memoryx "github.com/supportlab/triage-agent/agent/memory"
	triagex "github.com/supportlab/triage-agent/agent/triage"
	configx "github.com/supportlab/triage-agent/pkg/config"
	llmapix "github.com/supportlab/triage-agent/pkg/llmapi"
	logx "github.com/supportlab/triage-agent/pkg/logger"
)

const sessionHeader = "X-Session-Id"

type appConfig struct {
	Listen string `envconfig:"LISTEN" split_words:"true" default:":8080"`
}

func main() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	appCfg := configx.MustNew[appConfig]("AGENT")

	modelClient, err := llmapix.NewClient(*configx.MustNew[llmapix.Config]("MODEL"))
	if err != nil {
		log.Fatal().Err(err).Msg("model client init failed")
	}

	tokenClient := gatewayx.NewTokenClient(*configx.MustNew[gatewayx.TokenConfig]("GATEWAY"))
	gatewayClient, err := gatewayx.NewClient(*configx.MustNew[gatewayx.Config]("GATEWAY"), tokenClient)
	if err != nil {
		log.Fatal().Err(err).Msg("gateway client init failed")
	}

	memoryStore, err := memoryx.NewStore(*configx.MustNew[memoryx.Config]("MEMORY"))
	if err != nil {
		log.Fatal().Err(err).Msg("memory store init failed")
	}

	service, err := triagex.New(modelClient, gatewayClient, memoryStore, *configx.MustNew[triagex.Config]("TRIAGE"))
	if err != nil {
		log.Fatal().Err(err).Msg("triage service init failed")
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/invocations", func(c *fiber.Ctx) error {
		var payload contractx.InvocationPayload
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}

		result, err := service.Handle(c.UserContext(), payload, c.Get(sessionHeader))
		if err != nil {
			log.Error().Err(err).Msg("invocation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invocation failed"})
		}
		return c.JSON(result)
	})

	go func() {
		log.Info().Str("listen", appCfg.Listen).Msg("triage agent started")
		if err := app.Listen(appCfg.Listen); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
