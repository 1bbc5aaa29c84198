// SPDX-License-Identifier: MIT

package tcp

import (
	"bufio"
	"encoding/gob"
	"net"
)

type frameKind uint8

const (
	kindHello     frameKind = iota + 1 // spoke → hub: From=rank, Payload=[size]
	kindWelcome                        // hub → spoke: handshake accepted
	kindBroadcast                      // hub → spoke
	kindGather                         // spoke → hub
)

// frame is the unit on the wire. One gob stream per connection carries a
// sequence of frames; Seq matches the collective sequence number on both ends.
type frame struct {
	Seq     uint64
	Kind    frameKind
	From    int
	Payload []int32
}

// link is one framed TCP connection.
type link struct {
	rank int // remote rank (hub side) or 0 (spoke side)
	conn net.Conn
	bw   *bufio.Writer
	enc  *gob.Encoder
	dec  *gob.Decoder
}

func newLink(rank int, conn net.Conn) *link {
	bw := bufio.NewWriter(conn)
	return &link{
		rank: rank,
		conn: conn,
		bw:   bw,
		enc:  gob.NewEncoder(bw),
		dec:  gob.NewDecoder(bufio.NewReader(conn)),
	}
}

func (l *link) write(f frame) error {
	if err := l.enc.Encode(&f); err != nil {
		return err
	}
	return l.bw.Flush()
}

func (l *link) read() (frame, error) {
	var f frame
	err := l.dec.Decode(&f)
	return f, err
}
