package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	restapi "github.com/Reyad02/chatting-voice-agent/internal/server"
	"github.com/Reyad02/chatting-voice-agent/internal/util"
	"github.com/joho/godotenv"
)

// Cli is the program entry point.
func Cli(version string) (err error) {
	var currentFlags *Flags
	if currentFlags, err = Init(os.Args[1:]); err != nil {
		if errors.Is(err, errHelp) {
			return nil
		}
		return err
	}

	debuglog.SetLevel(debuglog.LevelFromInt(currentFlags.Debug))
	if _, err = i18n.Init(currentFlags.Language); err != nil {
		return err
	}
	if currentFlags.Version {
		fmt.Println(version)
		return nil
	}

	loadEnv(currentFlags.StateDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if currentFlags.CalendarAuth {
		return authorizeCalendar(ctx, currentFlags)
	}

	var app *App
	if app, err = Setup(ctx, currentFlags); err != nil {
		return err
	}
	defer app.Close()

	return restapi.Serve(ctx, app.Options(), currentFlags.Address)
}

// loadEnv reads .env from the working directory, then from the state
// directory. Variables already set are never overridden.
func loadEnv(stateDir string) {
	paths := []string{".env"}
	if dir, err := util.GetAbsolutePath(stateDir); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			debuglog.Log("could not load %s: %v\n", path, err)
		}
	}
}

func authorizeCalendar(ctx context.Context, f *Flags) error {
	if f.CalendarCredentials == "" {
		return errors.New(i18n.T("calendar_not_configured"))
	}
	return fileCredentials(f).Authorize(ctx, os.Stdin, os.Stdout)
}
