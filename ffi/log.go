package ffi

import "github.com/sirupsen/logrus"

var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger redirects the package's diagnostic output. The shim only logs at
// debug and warn levels; the default is the logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}
