package harness

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/parkit/lib/version"
)

// archiveLevel is the zstd compression level of archives.
const archiveLevel = 3

var archiveHeader = []string{
	"phase", "size", "repeat", "start_unix_ns", "elapsed_ns",
}

// WriteArchive writes every sample in report to path as a zstd-compressed
// CSV file. The first line is a comment holding the version which wrote it.
func WriteArchive(path string, report *Report) error {
	buf := &bytes.Buffer{ }
	fmt.Fprintf(buf, "# parkit %s space=%s threads=%d ranks=%d\n",
		version.Version, report.Space, report.Threads, report.Ranks)

	wr := csv.NewWriter(buf)
	if err := wr.Write(archiveHeader); err != nil { return err }
	for _, s := range report.Samples {
		err := wr.Write([]string{
			string(s.Phase),
			strconv.Itoa(s.Size),
			strconv.Itoa(s.Repeat),
			strconv.FormatInt(s.Start.UnixNano(), 10),
			strconv.FormatInt(int64(s.Elapsed), 10),
		})
		if err != nil { return err }
	}
	wr.Flush()
	if err := wr.Error(); err != nil { return err }

	out, err := zstd.CompressLevel(nil, buf.Bytes(), archiveLevel)
	if err != nil { return err }
	return os.WriteFile(path, out, 0644)
}

// ReadArchive reads the samples written by WriteArchive. Archives written by
// an incompatible version are rejected.
func ReadArchive(path string) ([]TimingSample, error) {
	b, err := os.ReadFile(path)
	if err != nil { return nil, err }
	b, err = zstd.Decompress(nil, b)
	if err != nil {
		return nil, fmt.Errorf("archive %s is not zstd-compressed: %w",
			path, err)
	}

	if err := checkArchiveVersion(path, b); err != nil { return nil, err }

	rd := csv.NewReader(bytes.NewReader(b))
	rd.Comment = '#'
	rd.FieldsPerRecord = len(archiveHeader)
	records, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse archive %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("archive %s has no header", path)
	}

	out := make([]TimingSample, 0, len(records) - 1)
	for i, rec := range records[1:] {
		s, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("archive %s, sample %d: %w", path, i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func checkArchiveVersion(path string, b []byte) error {
	line, _, _ := strings.Cut(string(b), "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "#" || fields[1] != "parkit" {
		return fmt.Errorf("archive %s has no version line", path)
	}
	ok, err := version.Compatible(fields[2])
	if err != nil { return fmt.Errorf("archive %s: %w", path, err) }
	if !ok {
		return fmt.Errorf("archive %s was written by parkit %s, which is " +
			"incompatible with parkit %s", path, fields[2], version.Version)
	}
	return nil
}

func parseSample(rec []string) (TimingSample, error) {
	ints := make([]int64, 4)
	for i := range ints {
		var err error
		ints[i], err = strconv.ParseInt(rec[i+1], 10, 64)
		if err != nil { return TimingSample{ }, err }
	}

	phase := Phase(rec[0])
	if phase != InitPhase && phase != ReducePhase {
		return TimingSample{ }, fmt.Errorf("unknown phase '%s'", rec[0])
	}

	return TimingSample{
		Phase: phase,
		Size: int(ints[0]),
		Repeat: int(ints[1]),
		Start: time.Unix(0, ints[2]),
		Elapsed: time.Duration(ints[3]),
	}, nil
}
