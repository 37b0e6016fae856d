package config

import (
	"fmt"

	"github.com/magiconair/properties"

	"kvbind/pkg/common"
)

type Workload struct {
	Table          string `properties:"table,default=usertable"`
	RecordCount    int    `properties:"recordcount,default=1000"`
	OperationCount int    `properties:"operationcount,default=1000"`
	ThreadCount    int    `properties:"threadcount,default=1"`
	FieldCount     int    `properties:"fieldcount,default=10"`
	FieldLength    int    `properties:"fieldlength,default=100"`
	ReadAllFields  bool   `properties:"readallfields,default=true"`
	KeyPrefix      string `properties:"keyprefix,default=user"`
	InsertOrder    string `properties:"insertorder,default=hashed"` // hashed | ordered
	MaxScanLength  int    `properties:"maxscanlength,default=100"`
	Seed           int64  `properties:"seed,default=0"`

	ReadProportion   float64 `properties:"readproportion,default=0.95"`
	UpdateProportion float64 `properties:"updateproportion,default=0.05"`
	InsertProportion float64 `properties:"insertproportion,default=0"`
	ScanProportion   float64 `properties:"scanproportion,default=0"`
	DeleteProportion float64 `properties:"deleteproportion,default=0"`
}

// LoadWorkload decodes the core workload properties.
func LoadWorkload(p *properties.Properties) (*Workload, error) {
	w := &Workload{}
	if err := p.Decode(w); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	applyWorkloadDefaults(w)
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func applyWorkloadDefaults(w *Workload) {
	if w.ThreadCount <= 0 {
		w.ThreadCount = 1
	}
	if w.MaxScanLength <= 0 {
		w.MaxScanLength = 100
	}
	if w.Table == "" {
		w.Table = "usertable"
	}
	if w.InsertOrder == "" {
		w.InsertOrder = "hashed"
	}
}

func (w *Workload) validate() error {
	if w.RecordCount < 0 {
		return common.ConfigError("recordcount", "must not be negative, got %d", w.RecordCount)
	}
	if w.OperationCount < 0 {
		return common.ConfigError("operationcount", "must not be negative, got %d", w.OperationCount)
	}
	if w.FieldCount <= 0 {
		return common.ConfigError("fieldcount", "must be positive, got %d", w.FieldCount)
	}
	if w.FieldLength < 0 {
		return common.ConfigError("fieldlength", "must not be negative, got %d", w.FieldLength)
	}
	if w.InsertOrder != "hashed" && w.InsertOrder != "ordered" {
		return common.ConfigError("insertorder", "want hashed or ordered, got %q", w.InsertOrder)
	}
	props := map[string]float64{
		"readproportion":   w.ReadProportion,
		"updateproportion": w.UpdateProportion,
		"insertproportion": w.InsertProportion,
		"scanproportion":   w.ScanProportion,
		"deleteproportion": w.DeleteProportion,
	}
	total := 0.0
	for k, v := range props {
		if v < 0 {
			return common.ConfigError(k, "must not be negative, got %g", v)
		}
		total += v
	}
	if total <= 0 && w.OperationCount > 0 {
		return common.ConfigError("readproportion", "all operation proportions are zero")
	}
	return nil
}
