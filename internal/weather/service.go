package weather

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type Provider interface {
	Current(ctx context.Context, city string) (Reading, error)
}

type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) Humidity(ctx context.Context, city string) (string, error) {
	city, reading, err := s.lookup(ctx, city)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Humidity in %s is %d%%", city, reading.Humidity), nil
}

func (s *Service) Temperature(ctx context.Context, city string) (string, error) {
	city, reading, err := s.lookup(ctx, city)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Temperature in %s is %s°C", city, strconv.FormatFloat(reading.Temperature, 'f', -1, 64)), nil
}

func (s *Service) lookup(ctx context.Context, city string) (string, Reading, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", Reading{}, ErrCityRequired
	}
	reading, err := s.provider.Current(ctx, city)
	return city, reading, err
}
