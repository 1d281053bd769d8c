// Package browser открывает ссылки стриминговых платформ в системном браузере
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// starter запускает внешнюю команду, не дожидаясь ее завершения
type starter func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Не оставляем зомби-процесс
	go func() { _ = cmd.Wait() }()
	return nil
}

// Opener открывает URL командой, подходящей для текущей ОС
type Opener struct {
	goos  string
	start starter
}

// New создает Opener для текущей ОС
func New() *Opener {
	return &Opener{goos: runtime.GOOS, start: startCommand}
}

// Open открывает ссылку. Допускаются только http и https.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("некорректная ссылка: %q", rawURL)
	}

	name, args := command(o.goos, u.String())
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("ошибка запуска браузера: %w", err)
	}
	return nil
}

func command(goos, link string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{link}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}
	default:
		return "xdg-open", []string{link}
	}
}
