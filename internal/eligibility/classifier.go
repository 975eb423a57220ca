// internal/eligibility/classifier.go
package eligibility

import (
	"math"
)

// tierOrder fixes the class index layout inside the weight matrix.
var tierOrder = []SupportTier{TierHigh, TierMedium, TierLow, TierNotEligible}

// StandardScaler standardizes features to zero mean and unit variance. It is
// fit jointly with the classifier and persisted in the same artifact; the two
// are never valid independently.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

func fitScaler(rows [][]float64) *StandardScaler {
	n := len(rows)
	dims := len(rows[0])
	means := make([]float64, dims)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}

	stds := make([]float64, dims)
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(n))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return &StandardScaler{Means: means, Stds: stds}
}

func (s *StandardScaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return out
}

// Classifier is a multinomial logistic-regression model over the six
// standardized features. Weights[c][j] is the weight of feature j for class
// c in tierOrder; Bias[c] is the class intercept.
type Classifier struct {
	Scaler  *StandardScaler `json:"scaler"`
	Weights [][]float64     `json:"weights"`
	Bias    []float64       `json:"bias"`
}

// Training hyperparameters. Balanced class weights keep the rare HIGH tier
// from being drowned out by the NOT_ELIGIBLE majority. The tier bands occupy
// narrow slices of the standardized income_per_capita axis, so the boundary
// weights must grow large before adjacent bands separate; per-sample updates
// reach that regime, batch-averaged steps do not.
const (
	trainEpochs         = 400
	trainLearningRate   = 0.1
	trainTargetAccuracy = 0.97
)

// TrainClassifier fits scaler and model jointly on the labeled samples.
func TrainClassifier(samples []Sample) *Classifier {
	rows := make([][]float64, len(samples))
	labels := make([]int, len(samples))
	counts := make([]float64, len(tierOrder))
	for i, s := range samples {
		rows[i] = s.Features.values()
		labels[i] = classIndex(s.Tier)
		counts[labels[i]]++
	}

	scaler := fitScaler(rows)
	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		scaled[i] = scaler.transform(row)
	}

	// Balanced class weights: n / (k * count_c). Classes absent from the
	// sample get weight 0 and stay at their zero-initialized parameters.
	classWeights := make([]float64, len(tierOrder))
	for c, count := range counts {
		if count > 0 {
			classWeights[c] = float64(len(samples)) / (float64(len(tierOrder)) * count)
		}
	}

	dims := len(featureNames)
	weights := make([][]float64, len(tierOrder))
	for c := range weights {
		weights[c] = make([]float64, dims)
	}
	bias := make([]float64, len(tierOrder))

	// Per-sample gradient descent on weighted cross-entropy. The sample order
	// is fixed by the generator seed, so training is deterministic.
	model := &Classifier{Scaler: scaler, Weights: weights, Bias: bias}
	for epoch := 0; epoch < trainEpochs; epoch++ {
		for i, row := range scaled {
			probs := softmax(logits(weights, bias, row))
			w := classWeights[labels[i]]
			for c := range tierOrder {
				indicator := 0.0
				if c == labels[i] {
					indicator = 1.0
				}
				g := trainLearningRate * w * (probs[c] - indicator)
				for j, v := range row {
					weights[c][j] -= g * v
				}
				bias[c] -= g
			}
		}

		if (epoch+1)%20 == 0 && model.Accuracy(samples) >= trainTargetAccuracy {
			break
		}
	}

	return model
}

// Predict returns the most probable tier and its probability as confidence.
func (m *Classifier) Predict(f FeatureVector) (SupportTier, float64) {
	probs := softmax(logits(m.Weights, m.Bias, m.Scaler.transform(f.values())))
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return tierOrder[best], probs[best]
}

// Accuracy reports the fraction of samples the model labels correctly.
func (m *Classifier) Accuracy(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		tier, _ := m.Predict(s.Features)
		if tier == s.Tier {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

func classIndex(tier SupportTier) int {
	for i, t := range tierOrder {
		if t == tier {
			return i
		}
	}
	return len(tierOrder) - 1
}

func logits(weights [][]float64, bias []float64, row []float64) []float64 {
	out := make([]float64, len(weights))
	for c := range weights {
		z := bias[c]
		for j, v := range row {
			z += weights[c][j] * v
		}
		out[c] = z
	}
	return out
}

func softmax(z []float64) []float64 {
	max := z[0]
	for _, v := range z[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
