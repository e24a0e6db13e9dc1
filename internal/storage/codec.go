package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/annel0/terragen/internal/biome"
	"github.com/annel0/terragen/internal/world"
	"github.com/klauspost/compress/zstd"
)

// FormatVersion версия двоичного формата снимка. Меняется при любом
// изменении раскладки; старые записи считаются промахом кэша.
const FormatVersion byte = 1

var magic = [3]byte{'T', 'G', 'W'}

// ErrVersionMismatch запись создана другой версией формата
var ErrVersionMismatch = errors.New("snapshot format version mismatch")

// Codec сжимает снимки мира zstd. Encoder и Decoder безопасны
// для конкурентного использования через EncodeAll/DecodeAll.
type Codec struct {
	compressor   *zstd.Encoder
	decompressor *zstd.Decoder
}

// NewCodec создаёт кодек со скоростью сжатия по умолчанию
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}
	return &Codec{compressor: enc, decompressor: dec}, nil
}

// Close освобождает ресурсы кодека
func (c *Codec) Close() {
	_ = c.compressor.Close()
	c.decompressor.Close()
}

// Encode: magic, версия, затем сжатое тело
func (c *Codec) Encode(s world.Snapshot) ([]byte, error) {
	var body bytes.Buffer
	w := &binWriter{w: &body}

	w.str(s.RunID)
	w.put(s.Seed)
	w.put(s.Fingerprint)
	w.put(uint32(s.Width))
	w.put(uint32(s.Height))
	for _, layer := range [][]float64{s.Heights, s.Temperature, s.Humidity, s.Transitions} {
		w.floats(layer)
	}
	biomes := make([]byte, len(s.Biomes))
	for i, b := range s.Biomes {
		biomes[i] = byte(b)
	}
	w.put(uint32(len(biomes)))
	w.raw(biomes)
	if w.err != nil {
		return nil, w.err
	}

	out := make([]byte, 0, 4+body.Len()/2)
	out = append(out, magic[:]...)
	out = append(out, FormatVersion)
	return c.compressor.EncodeAll(body.Bytes(), out), nil
}

// Decode обратная операция к Encode
func (c *Codec) Decode(data []byte) (world.Snapshot, error) {
	var s world.Snapshot
	if len(data) < 4 || !bytes.Equal(data[:3], magic[:]) {
		return s, fmt.Errorf("снимок: неверная сигнатура")
	}
	if data[3] != FormatVersion {
		return s, fmt.Errorf("%w: %d, ожидалась %d", ErrVersionMismatch, data[3], FormatVersion)
	}

	body, err := c.decompressor.DecodeAll(data[4:], nil)
	if err != nil {
		return s, fmt.Errorf("снимок: ошибка распаковки: %w", err)
	}

	r := &binReader{r: bytes.NewReader(body)}
	s.RunID = r.str()
	r.get(&s.Seed)
	r.get(&s.Fingerprint)
	var w, h uint32
	r.get(&w)
	r.get(&h)
	s.Width, s.Height = int(w), int(h)
	s.Heights = r.floats()
	s.Temperature = r.floats()
	s.Humidity = r.floats()
	s.Transitions = r.floats()

	var n uint32
	r.get(&n)
	raw := r.raw(int(n))
	if r.err != nil {
		return world.Snapshot{}, fmt.Errorf("снимок: повреждённые данные: %w", r.err)
	}
	s.Biomes = make([]biome.Biome, len(raw))
	for i, b := range raw {
		s.Biomes[i] = biome.Biome(b)
	}
	return s, nil
}

// binWriter пишет little-endian поля, запоминая первую ошибку
type binWriter struct {
	w   io.Writer
	err error
}

func (b *binWriter) put(v any) {
	if b.err == nil {
		b.err = binary.Write(b.w, binary.LittleEndian, v)
	}
}

func (b *binWriter) raw(p []byte) {
	if b.err == nil {
		_, b.err = b.w.Write(p)
	}
}

func (b *binWriter) str(s string) {
	b.put(uint32(len(s)))
	b.raw([]byte(s))
}

func (b *binWriter) floats(vs []float64) {
	b.put(uint32(len(vs)))
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	b.raw(buf)
}

type binReader struct {
	r   *bytes.Reader
	err error
}

func (b *binReader) get(v any) {
	if b.err == nil {
		b.err = binary.Read(b.r, binary.LittleEndian, v)
	}
}

func (b *binReader) raw(n int) []byte {
	if b.err != nil {
		return nil
	}
	if n < 0 || n > b.r.Len() {
		b.err = io.ErrUnexpectedEOF
		return nil
	}
	p := make([]byte, n)
	_, b.err = io.ReadFull(b.r, p)
	return p
}

func (b *binReader) str() string {
	var n uint32
	b.get(&n)
	return string(b.raw(int(n)))
}

func (b *binReader) floats() []float64 {
	var n uint32
	b.get(&n)
	if b.err == nil && int(n) > b.r.Len()/8 {
		b.err = io.ErrUnexpectedEOF
	}
	buf := b.raw(8 * int(n))
	if b.err != nil {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return out
}
