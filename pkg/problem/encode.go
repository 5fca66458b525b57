package problem

import (
	"bufio"
	"io"
	"strconv"
)

// Encode writes p in the positional grammar of its variant: the dimension
// header on the first line, then one block per line. Doubles use the
// shortest representation that parses back to the same value.
func Encode(w io.Writer, p *Problem) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	buf = strconv.AppendInt(buf[:0], int64(p.dims.Views), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(p.dims.Points), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(p.dims.Observations), 10)
	buf = append(buf, '\n')
	if _, err := bw.Write(buf); err != nil {
		return err
	}

	for _, f := range p.schema.Fields {
		vals := p.bufs[f.Entity]
		n := f.Block(p.dims)
		for blk := 0; blk < f.Blocks(p.dims); blk++ {
			for i, v := range vals[blk*n : (blk+1)*n] {
				buf = buf[:0]
				if i > 0 {
					buf = append(buf, ' ')
				}
				buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
				if _, err := bw.Write(buf); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
