package forecaster

import (
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-aqi-forecaster/forecast"
	"github.com/goccy/go-json"
)

// Model is the serializeable form of a Forecaster. Besides both fit models it keeps the
// training timestamps so the fitted history can be reconstructed on load.
type Model struct {
	Options       *Options       `json:"options"`
	Series        forecast.Model `json:"series_model"`
	Residual      forecast.Model `json:"residual_model"`
	TrainingTimes []time.Time    `json:"training_times"`
}

// Save encodes the model as json
func (m Model) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("unable to encode model, %w", err)
	}
	return nil
}

// LoadModel decodes a model written by Save
func LoadModel(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, fmt.Errorf("unable to decode model, %w", err)
	}
	if m.Options == nil {
		return Model{}, ErrNoOptionsInModel
	}
	return m, nil
}

// TablePrint writes a summary of both models
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if len(m.TrainingTimes) > 0 {
		if _, err := fmt.Fprintf(w, "%sTraining Points: %d    Residual Window: %d    Z-score: %.2f\n",
			prefix, len(m.TrainingTimes), m.Options.ResidualWindow, m.Options.ResidualZscore); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%sSeries Model\n", prefix); err != nil {
		return err
	}
	if err := m.Series.TablePrint(w, prefix+indent, indent); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%sResidual Model\n", prefix); err != nil {
		return err
	}
	return m.Residual.TablePrint(w, prefix+indent, indent)
}
