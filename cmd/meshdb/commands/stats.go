package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/mesh"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByLayer    map[log.Layer]int
	EventsByCategory map[log.Category]int
	PacketsByVariant map[mesh.Variant]int
	NodeChanges      map[log.NodeChange]int
	Sessions         map[string]*SessionStats
	Saves            map[string]int
	Loads            map[string]int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single boot session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Nodes     map[mesh.NodeNum]struct{}
}

// CollectStats reads every event in path matching filter.
func CollectStats(path string, filter log.Filter) (*Stats, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:    make(map[log.Layer]int),
		EventsByCategory: make(map[log.Category]int),
		PacketsByVariant: make(map[mesh.Variant]int),
		NodeChanges:      make(map[log.NodeChange]int),
		Sessions:         make(map[string]*SessionStats),
		Saves:            make(map[string]int),
		Loads:            make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				Nodes:     make(map[mesh.NodeNum]struct{}),
			}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if event.NodeNum != 0 {
			sess.Nodes[event.NodeNum] = struct{}{}
		}

		switch {
		case event.Packet != nil:
			stats.PacketsByVariant[event.Packet.Variant]++
		case event.Node != nil:
			stats.NodeChanges[event.Node.Change]++
		case event.Storage != nil:
			if event.Storage.Op == log.StorageOpSave {
				stats.Saves[event.Storage.Result]++
			} else {
				stats.Loads[event.Storage.Result]++
			}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	stats, err := CollectStats(path, filter)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Node Database Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerReconciler, log.LayerRegistry, log.LayerPersistence, log.LayerIdentity} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryPacket, log.CategoryNode, log.CategoryStorage, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.PacketsByVariant) > 0 {
		fmt.Fprintln(w, "Packets by Variant:")
		for _, v := range []mesh.Variant{mesh.VariantNone, mesh.VariantPosition, mesh.VariantData, mesh.VariantUser} {
			if count := stats.PacketsByVariant[v]; count > 0 {
				fmt.Fprintf(w, "  %-14s %d\n", v.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.NodeChanges) > 0 {
		fmt.Fprintln(w, "Node Changes:")
		for c := log.NodeCreated; c <= log.NodeNumCollision; c++ {
			if count := stats.NodeChanges[c]; count > 0 {
				fmt.Fprintf(w, "  %-18s %d\n", c.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	printResults(w, "Snapshot Saves:", stats.Saves)
	printResults(w, "Snapshot Loads:", stats.Loads)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, %d nodes, duration %s\n",
				shortenSessionID(s.id), s.stats.Events, len(s.stats.Nodes), duration)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}

func printResults(w io.Writer, title string, results map[string]int) {
	if len(results) == 0 {
		return
	}
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-14s %d\n", k+":", results[k])
	}
	fmt.Fprintln(w)
}
