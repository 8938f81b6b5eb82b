package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Publicador-api/pkg/config"
	"github.com/jhoicas/Publicador-api/pkg/jwt"
)

// Emite un token JWT de servicio para consumir la API desde el scheduler o
// el panel de operaciones. Usa el mismo secret y emisor que el servidor.
func main() {
	serviceID := flag.String("service", "", "identificador del servicio (ej. scheduler-01)")
	role := flag.String("role", "operador", "rol del servicio: operador | automatizacion")
	flag.Parse()

	if *serviceID == "" {
		fmt.Fprintln(os.Stderr, "uso: token -service <id> [-role operador|automatizacion]")
		os.Exit(2)
	}
	if *role != "operador" && *role != "automatizacion" {
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está configurado")
		os.Exit(1)
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *serviceID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generar token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
