package adjustment

import "github.com/ravikhokle/oddostock/internal/core/numerator"

const NumberPrefix = "ADJ"

var Numbering = numerator.DefaultConfig(NumberPrefix)
