package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cellgridgo/internal/analysis"
	"github.com/vk/cellgridgo/internal/cells"
	"github.com/vk/cellgridgo/internal/config"
	"github.com/vk/cellgridgo/internal/interpreter"
	"github.com/vk/cellgridgo/internal/llm"
)

// App is one assembled engine instance.
type App struct {
	logger   *slog.Logger
	outW     io.Writer
	engine   *config.Config
	compiler *cells.Compiler
}

// NewApp builds an application from its configuration, loading the engine
// configuration file when one is supplied.
func NewApp(outW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)

	engineCfg := config.Default()
	if appConfig.ConfigPath != "" {
		loaded, err := config.Load(appConfig.ConfigPath)
		if err != nil {
			return nil, err
		}
		engineCfg = loaded
	}

	chat, err := buildChatModel(engineCfg)
	if err != nil {
		return nil, err
	}

	compiler := cells.NewCompiler(
		analysis.DefaultRegistry(),
		interpreter.NewPythonInterpreter(engineCfg.Interpreter.PythonBinary),
		interpreter.NewScriptEngine(),
		chat,
	)

	return &App{
		logger:   logger,
		outW:     outW,
		engine:   engineCfg,
		compiler: compiler,
	}, nil
}

// buildChatModel wires the configured openai-compatible provider.
func buildChatModel(cfg *config.Config) (llm.ChatModel, error) {
	provider, ok := cfg.ProviderByName("openai")
	if !ok {
		return nil, fmt.Errorf("app: no 'openai' provider configured")
	}
	return llm.NewOpenAIChatModel(provider.BaseURL, provider.APIKey(), provider.Model, nil), nil
}

// Logger exposes the application logger, primarily for tests.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
