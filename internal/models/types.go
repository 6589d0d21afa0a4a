package models

import "github.com/lib/pq"

// StringSlice stores a list of URLs in a Postgres text[] column while
// marshalling as a plain JSON array.
type StringSlice = pq.StringArray
