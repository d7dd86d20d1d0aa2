package sqlxrepos

import (
	"strings"

	"github.com/lib/pq"

	"github.com/darasahq/darasa/core"
)

func intArray(ids []int) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, int64(id))
	}
	return arr
}

func excludedIDs(n int, id func(i int) int) pq.Int64Array {
	arr := make(pq.Int64Array, 0, n)
	for i := 0; i < n; i++ {
		arr = append(arr, int64(id(i)))
	}
	return arr
}

func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		clauses = append(clauses, ord.String())
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}
