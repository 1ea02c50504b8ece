//go:build rp2040

package platform

import (
	"context"
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"sensenode-go/x/fmtx"
)

// Setup configures I2C0 at 400 kHz for the sensor chain and UART0 as the
// console. The console also becomes the default log output.
func Setup() (drivers.I2C, io.ReadWriter, error) {
	sda := machine.I2C0_SDA_PIN
	scl := machine.I2C0_SCL_PIN
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       sda,
		SCL:       scl,
		Frequency: 400_000,
	}); err != nil {
		return nil, nil, err
	}

	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	port := &serialPort{u: hw}
	fmtx.DefaultOutput = port

	return machine.I2C0, port, nil
}

// serialPort adapts uartx to io.ReadWriter for the console.
type serialPort struct{ u *uartx.UART }

func (p *serialPort) Write(b []byte) (int, error) { return p.u.Write(b) }

func (p *serialPort) Read(b []byte) (int, error) {
	return p.u.RecvSomeContext(context.Background(), b)
}
