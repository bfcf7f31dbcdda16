package query_test

import (
	"strings"
	"testing"

	"viewcore/testutil"
)

// The query layer sits directly on the value types; it must not import
// anything else from this module and no third-party packages.
func TestQueryImportsOnlyRecordAndStandardLibrary(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(ip string) bool {
		if ip == "viewcore/pkg/record" {
			return false
		}
		return strings.Contains(ip, ".")
	}, "pkg/query depends on pkg/record and stdlib only")
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"pkg/query must not reach into internal packages")
}
