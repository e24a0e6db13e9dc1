package logging

import (
	"fmt"
	"sort"
	"sync"
)

// LoggerManager управляет логгерами для стадий конвейера генерации
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	dir     string
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает менеджер логгеров процесса
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = NewLoggerManager()
	})
	return globalManager
}

// NewLoggerManager создаёт пустой менеджер
func NewLoggerManager() *LoggerManager {
	return &LoggerManager{loggers: make(map[string]*Logger)}
}

// GetLogger возвращает логгер для компонента, создавая его при необходимости
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	if logger, exists := lm.loggers[component]; exists {
		lm.mu.RUnlock()
		return logger, nil
	}
	lm.mu.RUnlock()

	lm.mu.Lock()
	defer lm.mu.Unlock()

	// Проверяем еще раз на случай race condition
	if logger, exists := lm.loggers[component]; exists {
		return logger, nil
	}

	var logger *Logger
	var err error
	if lm.dir != "" {
		logger, err = NewFileLogger(component, lm.dir)
	} else {
		logger, err = NewLogger(component)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create logger for %s: %w", component, err)
	}

	lm.loggers[component] = logger
	return logger, nil
}

// SetLogDir включает дублирование в файлы для логгеров, созданных после вызова
func (lm *LoggerManager) SetLogDir(dir string) {
	lm.mu.Lock()
	lm.dir = dir
	lm.mu.Unlock()
}

// MustGetLogger возвращает логгер или логгер по умолчанию при ошибке
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err != nil {
		return Default()
	}
	return logger
}

// CloseAll закрывает все логгеры
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close logger for %s: %w", component, err)
		}
	}

	lm.loggers = make(map[string]*Logger)
	return lastErr
}

// ListComponents возвращает отсортированный список зарегистрированных компонентов
func (lm *LoggerManager) ListComponents() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	components := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		components = append(components, component)
	}
	sort.Strings(components)
	return components
}

// SetLogLevel устанавливает уровень логирования для компонента
func (lm *LoggerManager) SetLogLevel(component string, consoleLevel, fileLevel LogLevel) error {
	lm.mu.RLock()
	logger, exists := lm.loggers[component]
	lm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("logger for component %s not found", component)
	}

	logger.SetLevels(consoleLevel, fileLevel)
	return nil
}

// Удобные функции для получения логгеров
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

func GetPipelineLogger() *Logger {
	return GetComponentLogger("pipeline")
}

func GetErosionLogger() *Logger {
	return GetComponentLogger("erosion")
}

func GetBiomeLogger() *Logger {
	return GetComponentLogger("biome")
}

func GetStorageLogger() *Logger {
	return GetComponentLogger("storage")
}
