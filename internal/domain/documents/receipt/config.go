package receipt

import "github.com/ravikhokle/oddostock/internal/core/numerator"

// NumberPrefix starts every receipt number: RCP-000001.
const NumberPrefix = "RCP"

// Numbering is the counter configuration of receipts.
var Numbering = numerator.DefaultConfig(NumberPrefix)
