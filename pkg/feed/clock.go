package feed

import "time"

// timeNow is swapped in tests to exercise temp-mute expiry
var timeNow = time.Now
