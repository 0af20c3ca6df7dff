package delivery

import (
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/numerator"
)

const NumberPrefix = "DEL"

var Numbering = numerator.DefaultConfig(NumberPrefix)

// Intermediate statuses between draft and done.
const (
	StatusPicking entity.DocumentStatus = "picking"
	StatusPacking entity.DocumentStatus = "packing"
	StatusReady   entity.DocumentStatus = "ready"
)

// PendingStatuses are the statuses of deliveries that still have to ship.
var PendingStatuses = []entity.DocumentStatus{entity.StatusDraft, StatusPicking, StatusPacking, StatusReady}
