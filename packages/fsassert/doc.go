// Package fsassert plugs the fspec checks into Go's testing package.
//
// Each assertion calls t.Errorf with the rendered diagnostic on
// failure and returns false; on success it emits nothing and returns
// true. Failures are non-fatal, the caller decides whether to stop.
//
//	func TestDeploy(t *testing.T) {
//	    fsassert.FileExists(t, "/etc/myapp/config.yaml")
//
//	    a := fsassert.New(t, fsassert.WithPathDisplay(tmp, "<tmp>"))
//	    a.FileContains(logPath, "server started")
//	}
package fsassert
