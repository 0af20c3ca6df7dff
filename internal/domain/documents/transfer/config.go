package transfer

import (
	"github.com/ravikhokle/oddostock/internal/core/entity"
	"github.com/ravikhokle/oddostock/internal/core/numerator"
)

const NumberPrefix = "TRF"

var Numbering = numerator.DefaultConfig(NumberPrefix)

// StatusInTransit is set by dispatch.
const StatusInTransit entity.DocumentStatus = "in_transit"

// ScheduledStatuses are the statuses of transfers not yet completed.
var ScheduledStatuses = []entity.DocumentStatus{entity.StatusDraft, StatusInTransit}

const (
	placeSource      = "source"
	placeDestination = "destination"
)
