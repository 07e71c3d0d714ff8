package core

import (
	"errors"
)

var (
	ErrNilFactory              = errors.New("application factory is nil")
	ErrNilApplicationLayer     = errors.New("application factory returned a nil layer")
	ErrEngineActive            = errors.New("another engine instance is already active")
	ErrMissingSubsystem        = errors.New("subsystem constructor missing or returned nil")
	ErrInvalidStage            = errors.New("operation not allowed in the current engine stage")
	ErrNativeInit              = errors.New("failed to initialize the windowing library")
	ErrFunctionLoader          = errors.New("failed to load graphics functions")
	ErrWindowAlreadyCreated    = errors.New("window already created")
	ErrWindowNotCreated        = errors.New("window not created")
	ErrRendererAlreadySetup    = errors.New("renderer already set up")
	ErrRendererShutdown        = errors.New("renderer is shut down")
	ErrTextureNotLoaded        = errors.New("texture not loaded")
	ErrInvalidLogLevel         = errors.New("invalid log level")
	ErrUnsupportedConfigFormat = errors.New("unsupported config format")
	ErrUnknown                 = errors.New("unknown")
)
