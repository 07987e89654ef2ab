package report

import (
	"fmt"
	"math/big"
)

const (
	// SensorCount is the fixed number of sensor readings per report.
	SensorCount = 6
	// LocationCount is the fixed number of location words per report.
	LocationCount = 2

	wordBits = 256
)

// Report is an immutable air-quality report as the destination contract
// expects it: two UTF-8 strings, an unsigned timestamp, six unsigned
// sensor readings and two signed location words.
// Construct via New only; New copies all big.Int values.
type Report struct {
	ServerID  string
	UserCode  string
	Timestamp *big.Int
	Sensors   [SensorCount]*big.Int
	Location  [LocationCount]*big.Int
}

// ConstructionError describes a malformed report. It is fatal: a report
// that fails construction never reaches the encoder.
type ConstructionError struct {
	Field  string
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid report: %s: %s", e.Field, e.Reason)
}

// New validates and builds a Report. Sensors must have exactly 6 elements
// and location exactly 2; wrong lengths are rejected, never truncated or
// padded. Unsigned fields must be non-negative and fit in 256 bits,
// location words must fit the int256 range.
func New(serverID, userCode string, timestamp *big.Int, sensors []*big.Int, location []*big.Int) (*Report, error) {
	if len(sensors) != SensorCount {
		return nil, &ConstructionError{
			Field:  "sensors",
			Reason: fmt.Sprintf("expected exactly %d values, got %d", SensorCount, len(sensors)),
		}
	}
	if len(location) != LocationCount {
		return nil, &ConstructionError{
			Field:  "location",
			Reason: fmt.Sprintf("expected exactly %d values, got %d", LocationCount, len(location)),
		}
	}

	r := &Report{
		ServerID: serverID,
		UserCode: userCode,
	}

	ts, err := checkUint256("timestamp", timestamp)
	if err != nil {
		return nil, err
	}
	r.Timestamp = ts

	for i, v := range sensors {
		sensor, err := checkUint256(fmt.Sprintf("sensors[%d]", i), v)
		if err != nil {
			return nil, err
		}
		r.Sensors[i] = sensor
	}

	for i, v := range location {
		loc, err := checkInt256(fmt.Sprintf("location[%d]", i), v)
		if err != nil {
			return nil, err
		}
		r.Location[i] = loc
	}

	return r, nil
}

func checkUint256(field string, v *big.Int) (*big.Int, error) {
	if v == nil {
		return nil, &ConstructionError{Field: field, Reason: "value is nil"}
	}
	if v.Sign() < 0 {
		return nil, &ConstructionError{Field: field, Reason: "unsigned value must not be negative"}
	}
	if v.BitLen() > wordBits {
		return nil, &ConstructionError{Field: field, Reason: "value does not fit in 256 bits"}
	}
	return new(big.Int).Set(v), nil
}

// int256 range is [-2^255, 2^255-1]
var (
	maxInt256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), wordBits-1), big.NewInt(1))
	minInt256 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), wordBits-1))
)

func checkInt256(field string, v *big.Int) (*big.Int, error) {
	if v == nil {
		return nil, &ConstructionError{Field: field, Reason: "value is nil"}
	}
	if v.Cmp(minInt256) < 0 || v.Cmp(maxInt256) > 0 {
		return nil, &ConstructionError{Field: field, Reason: "value does not fit in int256"}
	}
	return new(big.Int).Set(v), nil
}
