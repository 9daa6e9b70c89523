package core

import "sort"

// aspectDimensions maps the generation service's supported aspect ratios
// to exact pixel dimensions. The service rejects free-form sizes, so these
// pairs must be reproduced precisely.
var aspectDimensions = map[string][2]int{
	"21:9": {2016, 864},
	"16:9": {1664, 936},
	"3:2":  {1584, 1056},
	"4:3":  {1472, 1104},
	"8:7":  {1344, 1176},
	"1:1":  {1328, 1328},
	"7:8":  {1176, 1344},
	"3:4":  {1104, 1472},
	"2:3":  {1056, 1584},
	"9:16": {936, 1664},
}

// DimensionsForRatio returns the pixel dimensions for a supported aspect
// ratio key such as "16:9". Pure function.
func DimensionsForRatio(ratio string) (width, height int, ok bool) {
	dims, ok := aspectDimensions[ratio]
	if !ok {
		return 0, 0, false
	}
	return dims[0], dims[1], true
}

// SupportedRatios returns the supported ratio keys in a stable order for
// error messages and docs.
func SupportedRatios() []string {
	ratios := make([]string, 0, len(aspectDimensions))
	for ratio := range aspectDimensions {
		ratios = append(ratios, ratio)
	}
	sort.Strings(ratios)
	return ratios
}
