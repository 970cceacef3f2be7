package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"barber-booking-server/internal/timegrid"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	Database             DatabaseConfig
	StoreDriver          string
	Admin                AdminConfig
	Schedule             ScheduleConfig
	BookingRatePerMinute int
	LoginRatePerMinute   int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
	Verbose  bool
}

// AdminConfig is the administrator account seeded on startup.
type AdminConfig struct {
	Email    string
	Password string
}

// ScheduleConfig holds the booking calendar settings.
type ScheduleConfig struct {
	Location *time.Location
	// UniformGrid swaps the shop calendar for an evenly spaced grid from
	// GridStart to GridEnd.
	UniformGrid  bool
	GridStart    timegrid.TimeOfDay
	GridEnd      timegrid.TimeOfDay
	WeekdayOpen  timegrid.TimeOfDay
	WeekdayClose timegrid.TimeOfDay
	WeekendOpen  timegrid.TimeOfDay
	WeekendClose timegrid.TimeOfDay
	// ReserveDuration makes an appointment hold every slot its service
	// duration covers instead of only its start slot.
	ReserveDuration bool
}

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "barber"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	verbose, err := strconv.ParseBool(getEnv("DB_VERBOSE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_VERBOSE: %w", err)
	}
	dbConfig.Verbose = verbose

	driver := strings.ToLower(getEnv("STORE_DRIVER", StoreMySQL))
	if driver != StoreMySQL && driver != StoreMemory {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want %s or %s", driver, StoreMySQL, StoreMemory)
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	ratePerMinute, err := strconv.Atoi(getEnv("BOOKING_RATE_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_RATE_PER_MINUTE: %w", err)
	}

	loginPerMinute, err := strconv.Atoi(getEnv("LOGIN_RATE_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_PER_MINUTE: %w", err)
	}

	schedule, err := loadSchedule()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:3000"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		Database:             dbConfig,
		StoreDriver:          driver,
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Schedule:             schedule,
		BookingRatePerMinute: ratePerMinute,
		LoginRatePerMinute:   loginPerMinute,
	}, nil
}

func loadSchedule() (ScheduleConfig, error) {
	var sc ScheduleConfig

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "America/Los_Angeles"))
	if err != nil {
		return sc, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	sc.Location = loc

	times := []struct {
		key, def string
		dst      *timegrid.TimeOfDay
	}{
		{"GRID_START", "7:00 AM", &sc.GridStart},
		{"GRID_END", "11:00 PM", &sc.GridEnd},
		{"WEEKDAY_OPEN", "5:00 PM", &sc.WeekdayOpen},
		{"WEEKDAY_CLOSE", "10:00 PM", &sc.WeekdayClose},
		{"WEEKEND_OPEN", "7:00 AM", &sc.WeekendOpen},
		{"WEEKEND_CLOSE", "3:00 PM", &sc.WeekendClose},
	}
	for _, t := range times {
		v, err := timegrid.Parse(getEnv(t.key, t.def))
		if err != nil {
			return sc, fmt.Errorf("invalid %s: %w", t.key, err)
		}
		*t.dst = v
	}

	uniform, err := strconv.ParseBool(getEnv("GRID_UNIFORM", "false"))
	if err != nil {
		return sc, fmt.Errorf("invalid GRID_UNIFORM: %w", err)
	}
	sc.UniformGrid = uniform

	reserve, err := strconv.ParseBool(getEnv("RESERVE_SERVICE_DURATION", "false"))
	if err != nil {
		return sc, fmt.Errorf("invalid RESERVE_SERVICE_DURATION: %w", err)
	}
	sc.ReserveDuration = reserve
	return sc, nil
}

// Grid returns the slot grid bookings use: the shop calendar unless
// GRID_UNIFORM is set.
func (sc ScheduleConfig) Grid() (timegrid.Grid, error) {
	if !sc.UniformGrid {
		return timegrid.Default(), nil
	}
	return timegrid.NewGrid(sc.GridStart, sc.GridEnd, timegrid.SlotMinutes)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
