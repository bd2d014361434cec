package auth

// baseCSSVars contains the CSS custom properties shared by both pages.
const baseCSSVars = `
        :root {
            --bg: #f3f2ef;
            --bg-card: #ffffff;
            --border: #e0dfdc;
            --text: #191919;
            --text-muted: #666666;
            --linkedin-blue: #0a66c2;
            --success: #057642;
            --error: #cc1016;
        }
`

const pageCSS = `
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, system-ui, "Segoe UI", Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            min-height: 100vh;
            display: flex;
            align-items: center;
            justify-content: center;
            padding: 2rem;
        }

        .card {
            width: 100%;
            max-width: 480px;
            background: var(--bg-card);
            border: 1px solid var(--border);
            border-radius: 8px;
            padding: 2rem;
            animation: fadeUp 0.4s ease-out;
        }

        h1 { font-size: 1.25rem; margin-bottom: 0.75rem; }
        p { color: var(--text-muted); line-height: 1.5; }
        code { font-family: ui-monospace, monospace; font-size: 0.9em; }

        .brand { color: var(--linkedin-blue); font-weight: 600; margin-bottom: 1.5rem; }
        .ok h1 { color: var(--success); }
        .fail h1 { color: var(--error); }

        @keyframes fadeUp {
            from { opacity: 0; transform: translateY(10px); }
            to { opacity: 1; transform: translateY(0); }
        }
`

const successTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Signed in - LinkedIn CLI</title>
    <style>
` + baseCSSVars + pageCSS + `
    </style>
</head>
<body>
    <div class="card ok">
        <div class="brand">li</div>
        <h1>Authorization received</h1>
        <p>You can close this window and return to the terminal.{{if .Profile}} Credentials will be stored in profile <code>{{.Profile}}</code>.{{end}}</p>
    </div>
</body>
</html>
`

const failureTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sign-in failed - LinkedIn CLI</title>
    <style>
` + baseCSSVars + pageCSS + `
    </style>
</head>
<body>
    <div class="card fail">
        <div class="brand">li</div>
        <h1>Authorization failed</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`
