package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/magiconair/properties"
	"go.uber.org/zap"

	"kvbind/pkg/binding"
	"kvbind/pkg/common"
	"kvbind/pkg/embedded"
)

func main() {
	p := properties.NewProperties()
	p.MustSet("embedded.engine", "memory")
	p.MustSet("fieldcount", "2")
	p.MustSet("fieldlength", "5")

	fmt.Println("Opening embedded binding (memory engine)...")
	db, err := binding.Open(embedded.Name, p, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to open: %v", err)
	}
	h := binding.NewHandle(db)
	defer h.Close()

	ctx := context.Background()
	key := "user10086"
	values := map[string][]byte{"field1": []byte("world"), "field0": []byte("hello")}

	fmt.Printf("Inserting: Key=%s, Fields=%d\n", key, len(values))
	start := time.Now()
	if st := h.Insert(ctx, "usertable", key, values); st != common.StatusOK {
		log.Fatalf("Insert failed: %s", st)
	}
	fmt.Printf("Insert done in %v\n", time.Since(start))

	result := map[string][]byte{}
	start = time.Now()
	st := h.Read(ctx, "usertable", key, nil, result)
	fmt.Printf("Read: %s %s=%q (in %v)\n", st, key, result[key], time.Since(start))

	var rows []map[string][]byte
	st = h.Scan(ctx, "usertable", key, 10, nil, &rows)
	fmt.Printf("Scan: %s\n", st)
}
