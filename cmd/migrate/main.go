package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/facturacion-api/internal/infrastructure/migration"
	"github.com/jhoicas/facturacion-api/pkg/config"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Nivel de log (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: logLevel}).Component("migrate")

	m, err := migration.New(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar migrador")
		}
	}()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		n, convErr := intArg(args)
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("uso: migrate step <n>")
		}
		err = m.Steps(n)
	case "force":
		v, convErr := intArg(args)
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("uso: migrate force <version>")
		}
		err = m.Force(v)
	case "version":
		version, dirty, vErr := m.Version()
		if vErr != nil {
			log.Fatal().Err(vErr).Msg("leer versión")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual")
		return
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migración fallida")
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("falta el argumento numérico")
	}
	return strconv.Atoi(args[1])
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Uso: migrate [-log-level info] <comando> [args]

Comandos:
  up              aplica todas las migraciones pendientes
  down            revierte todas las migraciones
  step <n>        aplica (n>0) o revierte (n<0) n migraciones
  force <version> marca la versión sin ejecutar SQL (limpia el estado dirty)
  version         muestra la versión actual`)
}
