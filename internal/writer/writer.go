// Package writer implements the rotating, size-bounded CSV record writer:
// one open file at a time, a buffered encoder, and byte-estimate-driven
// rotation that avoids a filesystem stat() call per row.
package writer

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/jihwankim/cdrgen/internal/events"
)

// header is the fixed 22-field CSV header. It is written verbatim at the
// top of every part file.
var header = []string{
	"event_type", "msisdn_src", "msisdn_dst", "direction", "start_ts_ms", "end_ts_ms",
	"tz_name", "tz_offset_min", "duration_sec", "mccmnc", "imsi", "imei", "cell_id",
	"record_type", "cause_for_record_closing", "sms_segments", "sms_status",
	"data_bytes_in", "data_bytes_out", "data_duration_sec", "apn", "rat",
}

const delimiter = ';'

// initialRowEstimate is the writer's starting per-row byte estimate, before
// the first true-size calibration.
const initialRowEstimate = 230

// minBufferBytes is the minimum userspace buffer size between serialization
// and the file.
const minBufferBytes = 64 * 1024

// Writer owns a single output file at a time for one shard on one day,
// rotating to a new part whenever the estimated size crosses
// rotateThreshold.
type Writer struct {
	dir             string
	day             string
	shard           int
	rotateThreshold int64

	part        int
	f           *os.File
	buf         *bufio.Writer
	rowEstimate int64 // per-row byte estimate; calibrated once from a real size check
	calibrated  bool
	estBytes    int64 // running estimate for the current part, header included
	rowsInPart  int
}

// New creates a Writer for shard in dir/day, rotating at rotateThreshold
// bytes. It opens the first part immediately.
func New(dir, day string, shard int, rotateThreshold int64) (*Writer, error) {
	w := &Writer{
		dir:             dir,
		day:             day,
		shard:           shard,
		rotateThreshold: rotateThreshold,
		rowEstimate:     initialRowEstimate,
	}
	if err := w.openNextPart(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) partPath() string {
	return fmt.Sprintf("%s/cdr_%s_shard%03d_part%03d.csv", w.dir, w.day, w.shard, w.part)
}

func (w *Writer) openNextPart() error {
	w.part++
	f, err := os.Create(w.partPath())
	if err != nil {
		return fmt.Errorf("open cdr part %s: %w", w.partPath(), err)
	}
	w.f = f
	w.buf = bufio.NewWriterSize(f, minBufferBytes)
	w.estBytes = 0
	w.rowsInPart = 0
	return w.writeHeader()
}

func (w *Writer) writeHeader() error {
	n, err := w.writeRow(header)
	if err != nil {
		return err
	}
	w.estBytes += int64(n)
	return nil
}

// writeRow writes one already-stringified row and returns the byte count
// written, including the trailing newline.
func (w *Writer) writeRow(fields []string) (int, error) {
	n := 0
	for i, f := range fields {
		if i > 0 {
			if err := w.buf.WriteByte(delimiter); err != nil {
				return n, err
			}
			n++
		}
		m, err := w.buf.WriteString(f)
		if err != nil {
			return n, err
		}
		n += m
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return n, err
	}
	n++
	return n, nil
}

// Write serializes e as one CSV row. Before writing, if the current part
// already holds at least one row and its estimated size has crossed
// rotateThreshold, it checks the true size and rotates to a new part when
// that is over the threshold too, so no part is left with a header and no
// rows. The estimate is a flat per-row figure, not the row's real encoded
// length: a filesystem stat() call on every row would be too costly, so the
// writer only learns the true size on threshold crossings.
func (w *Writer) Write(e *events.Event) error {
	if w.rowsInPart > 0 && w.estBytes >= w.rotateThreshold {
		if err := w.maybeRotate(); err != nil {
			return err
		}
	}

	row := formatRow(e)
	if _, err := w.writeRow(row); err != nil {
		return fmt.Errorf("write cdr row to %s: %w", w.partPath(), err)
	}
	w.estBytes += w.rowEstimate
	w.rowsInPart++
	return nil
}

// maybeRotate consults the true on-disk size once the estimate crosses the
// threshold, calibrating rowEstimate the first time, and rotates only if
// the true size also exceeds the threshold.
func (w *Writer) maybeRotate() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s before rotation check: %w", w.partPath(), err)
	}
	info, err := w.f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", w.partPath(), err)
	}
	trueSize := info.Size()

	if !w.calibrated && w.rowsInPart > 0 {
		w.rowEstimate = trueSize / int64(w.rowsInPart)
		if w.rowEstimate < 1 {
			w.rowEstimate = 1
		}
		w.calibrated = true
	}
	w.estBytes = trueSize

	if trueSize < w.rotateThreshold {
		return nil
	}
	return w.rotate()
}

func (w *Writer) rotate() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s before close: %w", w.partPath(), err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.partPath(), err)
	}
	return w.openNextPart()
}

// Finish flushes and closes the writer's current part file.
func (w *Writer) Finish() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s on finish: %w", w.partPath(), err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("close %s on finish: %w", w.partPath(), err)
	}
	return nil
}

func formatRow(e *events.Event) []string {
	return []string{
		e.Type,
		e.MSISDNSrc,
		e.MSISDNDst,
		e.Direction,
		strconv.FormatInt(e.StartTsMs, 10),
		strconv.FormatInt(e.EndTsMs, 10),
		e.TZName,
		strconv.Itoa(e.TZOffsetMin),
		strconv.FormatInt(e.DurationSec, 10),
		e.MCCMNC,
		e.IMSI,
		e.IMEI,
		e.CellID,
		e.RecordType,
		e.Cause,
		segmentsField(e),
		e.SMSStatus,
		bytesField(e.Type, e.DataBytesIn),
		bytesField(e.Type, e.DataBytesOut),
		bytesField(e.Type, e.DataDurationSec),
		e.APN,
		e.RAT,
	}
}

func segmentsField(e *events.Event) string {
	if e.Type != "SMS" {
		return ""
	}
	return strconv.Itoa(e.SMSSegments)
}

func bytesField(eventType string, v int64) string {
	if eventType != "DATA" {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
