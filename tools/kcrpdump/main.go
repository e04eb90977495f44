package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"keeper-client/internal/infrastructure/storage"
	"keeper-client/pkg/protocol"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	rec, err := storage.Load(os.Args[2])
	if err != nil {
		fmt.Printf("Invalid recording: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "info":
		fmt.Printf("level:   %s\n", rec.Level)
		fmt.Printf("started: %s\n", time.Unix(rec.Timestamp, 0).Format(time.RFC3339))
		fmt.Printf("frames:  %d (limit %d bytes)\n", len(rec.Frames), rec.MaxFrame)
		if n := len(rec.Frames); n > 0 {
			fmt.Printf("turns:   %d..%d\n", rec.Frames[0].Turn, rec.Frames[n-1].Turn)
		}
	case "frames":
		for i, f := range rec.Frames {
			fmt.Printf("%6d turn=%-6d %-36s %d bytes\n", i, f.Turn, kindName(f.Body), len(f.Body))
		}
	case "kinds":
		counts := make(map[string]int)
		for _, f := range rec.Frames {
			counts[kindName(f.Body)]++
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-36s %d\n", name, counts[name])
		}
	default:
		printHelp()
	}
}

func kindName(body []byte) string {
	k, ok := protocol.PeekServerKind(body)
	if !ok {
		return "<malformed>"
	}
	return k.String()
}

func printHelp() {
	fmt.Println(`kcrpdump - просмотр записи сессии (.kcrp)
Commands:
  info <file>     - заголовок записи
  frames <file>   - все кадры: ход, тип сообщения, размер
  kinds <file>    - сколько кадров каждого типа`)
}
