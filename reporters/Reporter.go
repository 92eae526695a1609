package reporters

import "github.com/reaandrew/badchars/core"

// Reporter consumes the finished result of a scan.
type Reporter interface {
	Report(result core.ScanResult) error
}
