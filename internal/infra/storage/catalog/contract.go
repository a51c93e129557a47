package catalog

import "github.com/m04kA/TattooBookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.Querier
