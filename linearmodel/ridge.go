// Package linearmodel implements the least squares solver used to fit the forecast
// model weights.
package linearmodel

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoOptions          = errors.New("no options provided")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrTargetLenMismatch  = errors.New("target length does not match the number of training rows")
	ErrFeatureLenMismatch = errors.New("number of features does not match the number of coefficients")
	ErrPenaltyLenMismatch = errors.New("penalties do not match the number of features")
	ErrNegativeLambda     = errors.New("regularization must be non-negative")
	ErrSingularMatrix     = errors.New("normal equations are not positive definite")
)

// jitter keeps the normal equations positive definite when a column is entirely zero,
// e.g. a holiday which never occurs in the training window
const jitter = 1e-9

// RidgeOptions represents input options to run the ridge regression
type RidgeOptions struct {
	// Lambda is the l2 penalty applied per observation on every penalized coefficient
	Lambda float64

	// Penalties overrides Lambda with a penalty per column of the design matrix when set.
	// A zero penalty leaves the column unregularized.
	Penalties []float64
}

// Validate runs basic validation on ridge options
func (o *RidgeOptions) Validate() (*RidgeOptions, error) {
	if o == nil {
		o = NewDefaultRidgeOptions()
	}
	if o.Lambda < 0 {
		return nil, fmt.Errorf("got %.4f, %w", o.Lambda, ErrNegativeLambda)
	}
	for i, p := range o.Penalties {
		if p < 0 {
			return nil, fmt.Errorf("got %.4f for column %d, %w", p, i, ErrNegativeLambda)
		}
	}
	return o, nil
}

// NewDefaultRidgeOptions returns ordinary least squares
func NewDefaultRidgeOptions() *RidgeOptions {
	return &RidgeOptions{}
}

// RidgeRegression solves (X'X + m*D) b = X'y with a Cholesky factorization where D is
// the diagonal of per column penalties and m the number of observations
type RidgeRegression struct {
	opt  *RidgeOptions
	coef []float64
}

// NewRidgeRegression initializes a ridge model ready for fitting
func NewRidgeRegression(opt *RidgeOptions) (*RidgeRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &RidgeRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data where x has one row per
// observation in y
func (r *RidgeRegression) Fit(x mat.Matrix, y []float64) error {
	if r.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	m, n := x.Dims()
	if len(y) != m {
		return fmt.Errorf("training data has %d rows and target has %d rows, %w", m, len(y), ErrTargetLenMismatch)
	}
	if r.opt.Penalties != nil && len(r.opt.Penalties) != n {
		return fmt.Errorf("got %d penalties for %d features, %w", len(r.opt.Penalties), n, ErrPenaltyLenMismatch)
	}

	xtx := mat.NewSymDense(n, nil)
	xtx.SymOuterK(1, x.T())

	for j := 0; j < n; j++ {
		penalty := r.opt.Lambda
		if r.opt.Penalties != nil {
			penalty = r.opt.Penalties[j]
		}
		xtx.SetSym(j, j, xtx.At(j, j)+(penalty+jitter)*float64(m))
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(m, y))

	var chol mat.Cholesky
	if ok := chol.Factorize(xtx); !ok {
		return ErrSingularMatrix
	}

	var coef mat.VecDense
	if err := chol.SolveVecTo(&coef, &xty); err != nil {
		return fmt.Errorf("unable to solve normal equations, %w", err)
	}

	r.coef = make([]float64, n)
	for j := 0; j < n; j++ {
		r.coef[j] = coef.AtVec(j)
	}
	return nil
}

// Predict using the ridge model
func (r *RidgeRegression) Predict(x mat.Matrix) ([]float64, error) {
	if r.opt == nil {
		return nil, ErrNoOptions
	}
	return Predict(x, r.coef)
}

// Score computes the coefficient of determination of the prediction
func (r *RidgeRegression) Score(x mat.Matrix, y []float64) (float64, error) {
	res, err := r.Predict(x)
	if err != nil {
		return 0.0, err
	}
	if len(res) != len(y) {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", len(res), len(y), ErrTargetLenMismatch)
	}
	return stat.RSquaredFrom(res, y, nil), nil
}

// Coef returns a slice of the trained coefficients in the same order of the training
// feature matrix by column.
func (r *RidgeRegression) Coef() []float64 {
	c := make([]float64, len(r.coef))
	copy(c, r.coef)
	return c
}

// Predict multiplies the design matrix with the coefficients
func Predict(x mat.Matrix, coef []float64) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	_, n := x.Dims()
	if n != len(coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, len(coef), ErrFeatureLenMismatch)
	}

	var res mat.VecDense
	res.MulVec(x, mat.NewVecDense(n, coef))

	out := make([]float64, res.Len())
	for i := range out {
		out[i] = res.AtVec(i)
	}
	return out, nil
}
