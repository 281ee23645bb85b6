package errors

import (
	"sync"

	"proj/internal/ui"
)

var (
	defaultHandler *ErrorHandler
	once           sync.Once
)

func GetDefaultHandler() (*ErrorHandler, error) {
	var err error
	once.Do(func() {
		defaultHandler, err = NewErrorHandler()
	})
	return defaultHandler, err
}

// HandleError reports err through the default handler. If no log file can be opened
// the error is still printed.
func HandleError(err error) {
	if err == nil {
		return
	}
	if handler, handlerErr := GetDefaultHandler(); handlerErr == nil && handler != nil {
		handler.Handle(err)
		return
	}
	ui.NewConsole().PrintError(err.Error())
}

// resetDefaultHandler resets the singleton for testing purposes
func resetDefaultHandler() {
	defaultHandler = nil
	once = sync.Once{}
}
