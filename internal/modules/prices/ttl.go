package prices

import "time"

// DefaultTTL is how long a cached quote counts as fresh
const DefaultTTL = 15 * time.Minute
