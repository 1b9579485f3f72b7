package runtime

import (
	"bufio"
	"io"
	"net"
	"sync"

	"txt-chat/contract"
)

var _ contract.Transport = (*LineTransport)(nil)

// Lines are short commands and chat text; anything larger is a protocol
// violation worth failing the connection for.
const maxLineBytes = 64 * 1024

// LineTransport frames a net.Conn into newline-delimited UTF-8 lines.
// Reads happen from one goroutine only; writes are serialized because the
// inbound and outbound loops both produce lines.
type LineTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner

	writeMu sync.Mutex
}

func NewLineTransport(conn net.Conn) *LineTransport {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &LineTransport{conn: conn, scanner: scanner}
}

func (t *LineTransport) ReadLine() (string, error) {
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return t.scanner.Text(), nil
}

func (t *LineTransport) WriteLine(line string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	_, err := t.conn.Write([]byte(line + "\n"))
	return err
}

func (t *LineTransport) Close() error {
	return t.conn.Close()
}
