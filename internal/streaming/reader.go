// Package streaming содержит компоненты для чтения аудио из файлов и по HTTP
package streaming

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// Reader представляет буферизованный поток для чтения данных порциями
type Reader struct {
	reader     *bufio.Reader
	resp       *http.Response
	bufferSize int
}

var client = &http.Client{
	// Общего таймаута нет: трек читается все время воспроизведения
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       300 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// NewReader создает новый потоковый ридер
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Accept-Encoding", "identity") // Отключаем сжатие для потока
	req.Header.Set("Range", "bytes=0-")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("User-Agent", "midnight-echoes/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	return &Reader{
		reader:     bufio.NewReaderSize(resp.Body, bufferSize),
		resp:       resp,
		bufferSize: bufferSize,
	}, nil
}

// Read реализует интерфейс io.Reader для потокового чтения
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}

// IsRemote сообщает, указывает ли источник на HTTP ресурс
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Open открывает источник аудио: локальный файл или URL.
// Второе значение сообщает, поддерживает ли источник перемотку.
func Open(ctx context.Context, source string, bufferSize int) (io.ReadCloser, bool, error) {
	if IsRemote(source) {
		r, err := NewReader(ctx, source, bufferSize)
		if err != nil {
			return nil, false, err
		}
		return r, false, nil
	}

	path := strings.TrimPrefix(source, "file://")
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, false, err
		}
		path = strings.Replace(path, "~", home, 1)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return f, true, nil
}
