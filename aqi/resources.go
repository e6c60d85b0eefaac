package aqi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aouyang1/go-aqi-forecaster/forecaster"
	"github.com/aouyang1/go-aqi-forecaster/ingest"
	"github.com/aouyang1/go-aqi-forecaster/store"
	"github.com/aouyang1/go-aqi-forecaster/timedataset"
	"golang.org/x/sync/errgroup"
)

// ModelLoader loads the trained model
type ModelLoader func(ctx context.Context) (Model, error)

// HistoryLoader loads the modeling series
type HistoryLoader func(ctx context.Context) (*timedataset.TimeDataset, error)

// Resources holds the trained model and the historical series shared read-only by every
// request. Each is loaded at most once and a failed load is not retried.
type Resources struct {
	loadModel   ModelLoader
	loadHistory HistoryLoader

	modelOnce sync.Once
	model     Model
	modelErr  error

	historyOnce sync.Once
	history     *timedataset.TimeDataset
	historyErr  error
}

func NewResources(loadModel ModelLoader, loadHistory HistoryLoader) *Resources {
	return &Resources{
		loadModel:   loadModel,
		loadHistory: loadHistory,
	}
}

// Model returns the cached model loading it on first use
func (r *Resources) Model(ctx context.Context) (Model, error) {
	r.modelOnce.Do(func() {
		if r.loadModel == nil {
			r.modelErr = fmt.Errorf("no model loader, %w", ErrModelUnavailable)
			return
		}
		r.model, r.modelErr = r.loadModel(ctx)
		if r.modelErr == nil && r.model == nil {
			r.modelErr = ErrModelUnavailable
		}
		if r.modelErr != nil && !errors.Is(r.modelErr, ErrModelUnavailable) {
			r.modelErr = fmt.Errorf("%w, %w", ErrModelUnavailable, r.modelErr)
		}
	})
	return r.model, r.modelErr
}

// History returns the cached modeling series loading it on first use
func (r *Resources) History(ctx context.Context) (*timedataset.TimeDataset, error) {
	r.historyOnce.Do(func() {
		if r.loadHistory == nil {
			r.historyErr = fmt.Errorf("no history loader, %w", ErrConfiguration)
			return
		}
		r.history, r.historyErr = r.loadHistory(ctx)
		if r.historyErr == nil && r.history.Len() == 0 {
			r.historyErr = fmt.Errorf("%w, %w", ErrConfiguration, timedataset.ErrNoValidReadings)
		}
	})
	return r.history, r.historyErr
}

// Warm loads the model and the history concurrently. Both loads run to completion on
// the caller's context so one failing does not cancel the other.
func (r *Resources) Warm(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := r.Model(ctx)
		return err
	})
	g.Go(func() error {
		_, err := r.History(ctx)
		return err
	})
	return g.Wait()
}

// ModelFromStore loads a serialized forecaster model from an artifact store
func ModelFromStore(s store.ArtifactStore, key string) ModelLoader {
	return func(ctx context.Context) (Model, error) {
		data, err := s.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch model artifact, %w, %w", ErrModelUnavailable, err)
		}
		m, err := forecaster.LoadModel(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("corrupt model artifact, %w, %w", ErrModelUnavailable, err)
		}
		f, err := forecaster.NewFromModel(m)
		if err != nil {
			return nil, fmt.Errorf("unable to load model, %w, %w", ErrModelUnavailable, err)
		}
		slog.Info("loaded model", "key", key, "training_points", len(m.TrainingTimes))
		return f, nil
	}
}

// HistorySource describes where the raw readings live and how they are cleaned
type HistorySource struct {
	Path              string
	Ingest            *ingest.Options
	Resampler         *timedataset.Resampler
	OutlierPercentile float64
}

// LoadHistory resamples raw readings into an hourly series and trims outliers. Readings
// that cannot be used are dropped. Having none left is a configuration error.
func LoadHistory(readings []timedataset.RawReading, resampler *timedataset.Resampler, percentile float64) (*timedataset.TimeDataset, error) {
	if resampler == nil {
		resampler = timedataset.NewResampler("", nil)
	}
	if percentile <= 0 {
		percentile = timedataset.DefaultOutlierPercentile
	}
	hourly, err := resampler.Resample(readings)
	if err != nil {
		return nil, fmt.Errorf("unable to resample readings, %w, %w", ErrConfiguration, err)
	}
	series, err := timedataset.Prepare(hourly, percentile)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare series, %w, %w", ErrConfiguration, err)
	}
	return series, nil
}

// HistoryFromFile loads the modeling series from a delimited text file
func HistoryFromFile(src HistorySource) HistoryLoader {
	return func(_ context.Context) (*timedataset.TimeDataset, error) {
		readings, err := ingest.ReadFile(src.Path, src.Ingest)
		if err != nil {
			return nil, fmt.Errorf("unable to read history, %w, %w", ErrConfiguration, err)
		}
		series, err := LoadHistory(readings, src.Resampler, src.OutlierPercentile)
		if err != nil {
			return nil, err
		}
		slog.Info("loaded history", "path", src.Path, "readings", len(readings), "points", series.Len())
		return series, nil
	}
}
