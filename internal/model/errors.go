package model

import "errors"

// ErrEmptyDataset means no usable price row survived filtering. It is not the
// same outcome as every hour being above the limit.
var ErrEmptyDataset = errors.New("no valid hourly prices published for the day")
