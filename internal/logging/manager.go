package logging

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// LoggerManager хранит логгеры компонентов симуляции и их уровни.
// Уровень, заданный до создания логгера, применяется при первом обращении к нему.
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	levels  map[string]LogLevel
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = newLoggerManager()
	})
	return globalManager
}

func newLoggerManager() *LoggerManager {
	return &LoggerManager{
		loggers: make(map[string]*Logger),
		levels:  make(map[string]LogLevel),
	}
}

// GetLogger возвращает логгер компонента, создавая его при необходимости
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

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("логгер %s: %w", component, err)
	}
	if level, ok := lm.levels[component]; ok {
		logger.minConsoleLevel = level
	}

	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер или консольный fallback при ошибке файла
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err == nil {
		return logger
	}

	fallback := &Logger{
		component:       component,
		consoleLogger:   defaultLogger.consoleLogger,
		minConsoleLevel: INFO,
		minFileLevel:    ERROR,
	}
	lm.mu.Lock()
	if level, ok := lm.levels[component]; ok {
		fallback.minConsoleLevel = level
	}
	lm.loggers[component] = fallback
	lm.mu.Unlock()

	fallback.Warn("файловый лог недоступен, пишем только в консоль: %v", err)
	return fallback
}

// SetComponentLevel задаёт уровень консоли компонента, в том числе ещё не созданного
func (lm *LoggerManager) SetComponentLevel(component string, level LogLevel) {
	lm.mu.Lock()
	lm.levels[component] = level
	logger := lm.loggers[component]
	lm.mu.Unlock()

	if logger != nil {
		logger.mu.Lock()
		logger.minConsoleLevel = level
		logger.mu.Unlock()
	}
}

// ApplyLevels применяет уровни из конфигурации вида {"enemy": "debug"}.
// Неизвестные уровни собираются в одну ошибку, остальные применяются.
func (lm *LoggerManager) ApplyLevels(levels map[string]string) error {
	var bad []string
	for component, name := range levels {
		level, ok := lookupLevel(name)
		if !ok {
			bad = append(bad, component+"="+name)
			continue
		}
		lm.SetComponentLevel(component, level)
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("неизвестные уровни логирования: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Level возвращает уровень консоли компонента
func (lm *LoggerManager) Level(component string) LogLevel {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	if logger, ok := lm.loggers[component]; ok {
		logger.mu.Lock()
		defer logger.mu.Unlock()
		return logger.minConsoleLevel
	}
	if level, ok := lm.levels[component]; ok {
		return level
	}
	return defaultLogger.minConsoleLevel
}

// CloseAll закрывает файлы всех логгеров при остановке процесса
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("закрытие логгера %s: %w", component, err)
		}
	}

	lm.loggers = make(map[string]*Logger)
	return lastErr
}

// ListComponents возвращает отсортированный список созданных логгеров
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

func lookupLevel(name string) (LogLevel, bool) {
	for l := TRACE; l <= ERROR; l++ {
		if strings.EqualFold(name, l.String()) {
			return l, true
		}
	}
	return INFO, false
}

// GetComponentLogger возвращает логгер компонента из глобального менеджера
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

func GetCombatLogger() *Logger { return GetComponentLogger("combat") }
func GetEnemyLogger() *Logger  { return GetComponentLogger("enemy") }
func GetPlayerLogger() *Logger { return GetComponentLogger("player") }
func GetWorldLogger() *Logger  { return GetComponentLogger("world") }
func GetAPILogger() *Logger    { return GetComponentLogger("api") }
