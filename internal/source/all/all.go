// Package all registers every reader backend with the source factory.
// Binaries blank-import it so the definition file selects the backend.
package all

import (
	_ "viewtable/internal/source/csvfile"
	_ "viewtable/internal/source/htmltable"
	_ "viewtable/internal/source/mssql"
	_ "viewtable/internal/source/postgres"
	_ "viewtable/internal/source/sqlite"
)
