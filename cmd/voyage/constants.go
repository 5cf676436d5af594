package main

import "time"

// timePrecision rounds reported build durations.
const timePrecision = time.Millisecond
