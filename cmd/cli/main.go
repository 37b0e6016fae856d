package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"kvbind/pkg/binding"
	"kvbind/pkg/common"
	"kvbind/pkg/config"

	_ "kvbind/pkg/embedded"
	_ "kvbind/pkg/redisdb"
)

const Prompt = "kvbind> "

func main() {
	dbName := flag.String("db", "embedded", "binding to open ("+strings.Join(binding.Names(), ", ")+")")
	files := flag.StringArrayP("property-file", "P", nil, "property or yaml file, may repeat")
	props := flag.StringArrayP("prop", "p", nil, "key=value override, may repeat")
	table := flag.String("table", "usertable", "table passed to every operation")
	flag.Parse()

	p, err := config.Load(*files, *props)
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("kvbind CLI (binding: %s)\n", *dbName)
	db, err := binding.Open(*dbName, p, zap.NewNop())
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		os.Exit(1)
	}
	h := binding.NewHandle(db)
	defer h.Close()
	fmt.Println("Ready! Type 'help' for commands.")

	sh := &shell{h: h, table: *table}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !sh.exec(context.Background(), strings.Fields(line)) {
			fmt.Println("Bye!")
			return
		}
	}
}

type shell struct {
	h     *binding.Handle
	table string
}

// exec runs one command line and reports whether the shell should keep going.
func (s *shell) exec(ctx context.Context, parts []string) bool {
	switch cmd := strings.ToLower(parts[0]); cmd {
	case "read", "get":
		s.read(ctx, parts)
	case "insert", "update", "put":
		s.write(ctx, cmd, parts)
	case "delete", "del":
		s.del(ctx, parts)
	case "scan":
		s.scan(ctx, parts)
	case "help":
		printHelp()
	case "exit", "quit":
		return false
	default:
		fmt.Printf("Unknown command: '%s'. Type 'help'.\n", cmd)
	}
	return true
}

func (s *shell) read(ctx context.Context, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: read <key> [field...]")
		return
	}
	var fields []string
	if len(parts) > 2 {
		fields = parts[2:]
	}
	result := map[string][]byte{}
	start := time.Now()
	st := s.h.Read(ctx, s.table, parts[1], fields, result)
	fmt.Printf("%s (%v)\n", st, time.Since(start))
	if st == common.StatusOK {
		printRecord("  ", result)
	}
}

func (s *shell) write(ctx context.Context, cmd string, parts []string) {
	if len(parts) < 3 {
		fmt.Printf("Usage: %s <key> field=value...\n", cmd)
		return
	}
	values := map[string][]byte{}
	for _, kv := range parts[2:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			fmt.Printf("Error: expected field=value, got %q\n", kv)
			return
		}
		values[k] = []byte(v)
	}

	start := time.Now()
	var st common.Status
	if cmd == "update" {
		st = s.h.Update(ctx, s.table, parts[1], values)
	} else {
		st = s.h.Insert(ctx, s.table, parts[1], values)
	}
	fmt.Printf("%s (%v)\n", st, time.Since(start))
}

func (s *shell) del(ctx context.Context, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: delete <key>")
		return
	}
	start := time.Now()
	st := s.h.Delete(ctx, s.table, parts[1])
	fmt.Printf("%s (%v)\n", st, time.Since(start))
}

func (s *shell) scan(ctx context.Context, parts []string) {
	if len(parts) < 3 {
		fmt.Println("Usage: scan <start_key> <count> [field...]")
		return
	}
	count, err := strconv.Atoi(parts[2])
	if err != nil {
		fmt.Println("Error: count must be an integer")
		return
	}
	var fields []string
	if len(parts) > 3 {
		fields = parts[3:]
	}

	var rows []map[string][]byte
	start := time.Now()
	st := s.h.Scan(ctx, s.table, parts[1], count, fields, &rows)
	fmt.Printf("%s, %d records (%v)\n", st, len(rows), time.Since(start))
	for i, row := range rows {
		if i >= 20 {
			fmt.Printf("... and %d more\n", len(rows)-20)
			break
		}
		fmt.Printf("  [%d]\n", i)
		printRecord("    ", row)
	}
}

func printRecord(indent string, rec map[string][]byte) {
	names := make([]string, 0, len(rec))
	for k := range rec {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("%s%s = %q\n", indent, k, rec[k])
	}
}

func printHelp() {
	fmt.Println(`
Commands:
  read <key> [field...]          Read a record
  insert <key> f=v [f=v...]      Insert a record
  update <key> f=v [f=v...]      Update fields of a record
  delete <key>                   Delete a record
  scan <start> <count> [field]   Read count records from start
  exit                           Exit CLI
	`)
}
